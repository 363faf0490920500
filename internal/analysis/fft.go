package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/stat"
)

var ErrTooShort = errors.New("analysis: series too short")

// FFT is a radix-2 transform; len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum zero-pads data to a power of two and returns the magnitude of
// the first half of its transform.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantPeriod returns the period of the strongest non-DC component of a
// series sampled every interval seconds. The mean is removed first.
func DominantPeriod(data []float64, interval float64) (float64, error) {
	if len(data) < 4 {
		return 0, ErrTooShort
	}

	mean := stat.Mean(data, nil)

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	n := len(ps) * 2

	maxIdx := 0
	maxPower := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0, nil
	}

	return float64(n) * interval / float64(maxIdx), nil
}
