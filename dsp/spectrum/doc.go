// Package spectrum estimates the power spectral density of signals made of
// non-overlapping rectangular pulses (SNORP).
//
// The signal alternates between gaps of zero magnitude and pulses of a fixed
// magnitude. Gap i is followed by pulse i, and the intervals tile
// [0, total duration] without overlap. Because every interval is a rectangle,
// its Fourier transform is known in closed form, so [Estimate] evaluates the
// transform of the whole realization exactly at arbitrary frequencies instead
// of sampling the signal and running an FFT.
//
// [Periodogram] is the sampled counterpart built on an FFT plan. It is useful
// for cross-checking [Estimate] and for long signals where a dense uniform
// frequency grid is wanted. [SampledEstimate] runs a [Goertzel] recurrence per
// frequency on the same sampled signal and accepts any frequency grid.
package spectrum
