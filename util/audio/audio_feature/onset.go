package audio_feature

import "sort"

// Aggregate reduces the per-band onset differences of one frame.
type Aggregate func([]float64) float64

func MedianAggregate(v []float64) float64 { return median(v) }

// OnsetStrength computes spectral flux on a dB mel spectrogram ([mel][frame]) with lag 1.
// The envelope is left padded to line up with centred frames and has one value per frame.
func OnsetStrength(melDB [][]float64, nFFT, hop int, agg Aggregate) []float64 {
	const lag = 1
	if len(melDB) == 0 {
		return nil
	}
	nFrames := len(melDB[0])
	env := make([]float64, nFrames)
	pad := lag + nFFT/(2*hop)

	diff := make([]float64, len(melDB))
	for j := 0; j+lag < nFrames; j++ {
		t := j + pad
		if t >= nFrames {
			break
		}
		for m, row := range melDB {
			d := row[j+lag] - row[j]
			if d < 0 {
				d = 0
			}
			diff[m] = d
		}
		env[t] = agg(diff)
	}
	return env
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
