// Package theory holds closed-form power spectral densities of SNORP signals
// for specific pulse and gap duration laws.
//
// The formulas are asymptotic results. Each one is valid in the frequency
// range bounded by the inverse duration scales of its laws, and several of
// them change form at power-law exponents 1 and 2 of the gap distribution.
// Branch selection uses exact comparisons: power == 1 is its own branch, the
// remaining boundaries are closed below and open above (p < 2 versus p >= 2).
//
// Within a supported law pair, an exponent without a known closed form
// yields a slice of NaN values. Law pairs with no formula at all are rejected
// by [Predict] with [ErrUnsupportedCombination].
package theory
