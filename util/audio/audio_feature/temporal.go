package audio_feature

import "math"

// RMS returns the root-mean-square energy of every centred frame.
func RMS(y []float64, frameLength, hop int) []float64 {
	padded := padCenter(y, frameLength, false)
	n := frameCount(len(y), hop)
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		frame := padded[t*hop : t*hop+frameLength]
		var sum float64
		for _, v := range frame {
			sum += v * v
		}
		out[t] = math.Sqrt(sum / float64(frameLength))
	}
	return out
}

// ZeroCrossingRate returns the fraction of sign changes per centred frame.
// Samples within 1e-10 of zero count as zero, and zero counts as positive.
func ZeroCrossingRate(y []float64, frameLength, hop int) []float64 {
	const threshold = 1e-10

	padded := padCenter(y, frameLength, true)
	n := frameCount(len(y), hop)
	out := make([]float64, n)
	for t := 0; t < n; t++ {
		frame := padded[t*hop : t*hop+frameLength]
		crossings := 0
		prev := signBit(frame[0], threshold)
		for _, v := range frame[1:] {
			cur := signBit(v, threshold)
			if cur != prev {
				crossings++
			}
			prev = cur
		}
		out[t] = float64(crossings) / float64(frameLength)
	}
	return out
}

func signBit(v, threshold float64) bool {
	if math.Abs(v) <= threshold {
		return false
	}
	return v < 0
}
