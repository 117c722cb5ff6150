// Package pareto samples durations from the bounded Pareto law.
//
// The power parameter follows the convention of the SNORP literature: the
// exponent of the probability density is power+1, so the density on
// [low, high] is proportional to x^-(power+1). An infinite high bound selects
// the ordinary (type I) Pareto law with scale low.
package pareto
