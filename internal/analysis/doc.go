// Package analysis summarizes recorded trajectories.
//
//   - [Summarize]: separation statistics and apsides
//   - [PowerSpectrum]: magnitude spectrum of a sampled series
//   - [DominantPeriod]: strongest oscillation period in a series
//
// Statistics come from gonum's stat and floats packages.
package analysis
