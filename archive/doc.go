// Package archive stores experiment results.
//
// Averaged spectra go to CSV files named after the model and seed, e.g.
// poiss10000.pareto100_1000_-1.seed1081.psd.csv, holding one row per
// frequency with the base-10 logarithms of the frequency, the simulated PSD
// and the theoretical PSD. A sqlite catalog indexes the written files so runs
// can be listed and reloaded later.
package archive
