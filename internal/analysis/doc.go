// Package analysis inspects headless runs.
//
// The package includes:
//
//   - [PowerSpectrum]: magnitude spectrum of a per-tick series
//   - [DominantPeriod]: the strongest repeating period in ticks
//   - [Heatmap]: where particles live on screen, rendered as ASCII
//
// # Spawn Rhythm
//
// Silhouettes walk at constant speed and wrap, so encounters between a pair
// recur. A clear peak in the spectrum of live particle counts shows that
// rhythm; a flat spectrum means encounters are well mixed.
package analysis
