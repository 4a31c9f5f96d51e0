package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the first half of the spectrum of
// data with its mean removed. Bin k corresponds to a period of len(data)/k.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	var mean float64
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period in ticks of the strongest non-constant
// component. ok is false for series that are too short or flat.
func DominantPeriod(data []float64) (period float64, ok bool) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, false
	}
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] < 1e-9 {
		return 0, false
	}
	return float64(len(data)) / float64(best), true
}
