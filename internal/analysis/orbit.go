package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Samples   int
	Invalid   int
	Mean      float64
	StdDev    float64
	Min       float64
	Max       float64
	Periapses []int // sample indices of local separation minima
	Apoapses  []int // sample indices of local separation maxima
	Period    float64
}

// Summarize computes statistics of a separation series sampled every
// interval seconds. Non-finite samples are counted and skipped.
func Summarize(separations []float64, interval float64) Summary {
	s := Summary{Samples: len(separations)}

	valid := make([]float64, 0, len(separations))
	for _, d := range separations {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			s.Invalid++
			continue
		}
		valid = append(valid, d)
	}
	if len(valid) == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(valid, nil)
	if len(valid) == 1 {
		s.StdDev = 0
	}
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Periapses, s.Apoapses = Apsides(valid)

	if p, err := DominantPeriod(valid, interval); err == nil {
		s.Period = p
	}

	return s
}

// Apsides returns indices of strict interior local minima and maxima.
func Apsides(series []float64) (minima, maxima []int) {
	for i := 1; i < len(series)-1; i++ {
		prev, cur, next := series[i-1], series[i], series[i+1]
		switch {
		case cur < prev && cur <= next:
			minima = append(minima, i)
		case cur > prev && cur >= next:
			maxima = append(maxima, i)
		}
	}
	return minima, maxima
}
