package audio_feature

import (
	"fmt"
	"math"
	"sort"
)

// SpectralCentroid is the magnitude weighted mean frequency of each frame.
func SpectralCentroid(s *Spectrogram) []float64 {
	freqs := s.Frequencies()
	out := make([]float64, len(s.Frames))
	for t, frame := range s.Frames {
		out[t] = centroid(frame, freqs)
	}
	return out
}

func centroid(frame, freqs []float64) float64 {
	norm := l1(frame)
	var c float64
	for k, v := range frame {
		c += freqs[k] * v / norm
	}
	return c
}

// SpectralBandwidth is the second order spread around the centroid.
func SpectralBandwidth(s *Spectrogram) []float64 {
	freqs := s.Frequencies()
	out := make([]float64, len(s.Frames))
	for t, frame := range s.Frames {
		c := centroid(frame, freqs)
		norm := l1(frame)
		var acc float64
		for k, v := range frame {
			d := freqs[k] - c
			acc += v / norm * d * d
		}
		out[t] = math.Sqrt(acc)
	}
	return out
}

// SpectralRolloff is the lowest frequency below which rollPercent of the magnitude lies.
func SpectralRolloff(s *Spectrogram, rollPercent float64) []float64 {
	freqs := s.Frequencies()
	out := make([]float64, len(s.Frames))
	for t, frame := range s.Frames {
		total := 0.0
		for _, v := range frame {
			total += v
		}
		threshold := rollPercent * total
		cum := 0.0
		for k, v := range frame {
			cum += v
			if cum >= threshold {
				out[t] = freqs[k]
				break
			}
		}
	}
	return out
}

// SpectralFlatness is the geometric over arithmetic mean of the power spectrum.
func SpectralFlatness(s *Spectrogram) []float64 {
	out := make([]float64, len(s.Frames))
	for t, frame := range s.Frames {
		var logSum, sum float64
		for _, v := range frame {
			p := math.Max(amin, v*v)
			logSum += math.Log(p)
			sum += p
		}
		n := float64(len(frame))
		out[t] = math.Exp(logSum/n) / (sum / n)
	}
	return out
}

// SpectralContrast returns peak/valley dB differences for nBands octave bands above fmin
// plus the remainder band. Result is indexed as [band][frame].
func SpectralContrast(s *Spectrogram, fmin float64, nBands int, quantile float64) ([][]float64, error) {
	freqs := s.Frequencies()
	nyquist := float64(s.SampleRate) / 2

	edges := make([]float64, nBands+2)
	for i := 1; i < len(edges); i++ {
		edges[i] = fmin * math.Pow(2, float64(i-1))
	}
	for _, e := range edges[:len(edges)-1] {
		if e >= nyquist {
			return nil, fmt.Errorf("频带边界 %.1f Hz 超出奈奎斯特频率 %.1f Hz", e, nyquist)
		}
	}

	type band struct{ lo, hi, count int }
	bands := make([]band, nBands+1)
	for k := 0; k <= nBands; k++ {
		lo, hi := -1, -1
		for i, f := range freqs {
			if f >= edges[k] && f <= edges[k+1] {
				if lo < 0 {
					lo = i
				}
				hi = i
			}
		}
		if lo < 0 {
			return nil, fmt.Errorf("频带 %d 没有可用的频点", k)
		}
		if k > 0 && lo > 0 {
			lo--
		}
		if k == nBands {
			hi = len(freqs) - 1
		}
		count := hi - lo + 1
		if k < nBands {
			hi--
		}
		bands[k] = band{lo: lo, hi: hi, count: count}
	}

	nFrames := len(s.Frames)
	peak := make([][]float64, nBands+1)
	valley := make([][]float64, nBands+1)
	sub := make([]float64, 0, len(freqs))
	for k, b := range bands {
		idx := int(math.Max(math.RoundToEven(quantile*float64(b.count)), 1))
		peak[k] = make([]float64, nFrames)
		valley[k] = make([]float64, nFrames)
		for t, frame := range s.Frames {
			sub = append(sub[:0], frame[b.lo:b.hi+1]...)
			sort.Float64s(sub)
			n := idx
			if n > len(sub) {
				n = len(sub)
			}
			var lowSum, highSum float64
			for i := 0; i < n; i++ {
				lowSum += sub[i]
				highSum += sub[len(sub)-1-i]
			}
			valley[k][t] = lowSum / float64(n)
			peak[k][t] = highSum / float64(n)
		}
	}

	peakDB := PowerToDB(peak, topDB)
	valleyDB := PowerToDB(valley, topDB)
	for k := range peakDB {
		for t := range peakDB[k] {
			peakDB[k][t] -= valleyDB[k][t]
		}
	}
	return peakDB, nil
}

// l1 returns the L1 norm, or 1 for an all-zero frame so the frame stays zero.
func l1(frame []float64) float64 {
	var sum float64
	for _, v := range frame {
		sum += math.Abs(v)
	}
	if sum <= math.SmallestNonzeroFloat64 {
		return 1
	}
	return sum
}
