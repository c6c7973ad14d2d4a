package audio_feature

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// TempoOptions controls the autocorrelation tempo estimator.
type TempoOptions struct {
	// StartBPM is the centre of the log-normal tempo prior.
	StartBPM float64
	// StdBPM is the prior width in octaves.
	StdBPM float64
	// ACSize is the autocorrelation window in seconds.
	ACSize float64
	// MaxTempo excludes faster periods.
	MaxTempo float64
}

func DefaultTempoOptions() TempoOptions {
	return TempoOptions{
		StartBPM: 120,
		StdBPM:   1.0,
		ACSize:   8.0,
		MaxTempo: 320,
	}
}

// Tempogram returns the max-normalised local autocorrelation of the onset envelope, indexed [frame][lag].
func Tempogram(onset []float64, winLength int) [][]float64 {
	n := len(onset)
	if n == 0 || winLength <= 0 {
		return nil
	}
	half := winLength / 2
	padded := make([]float64, n+2*half)
	for i := 0; i < half; i++ {
		padded[i] = onset[0] * float64(i) / float64(half)
		padded[n+half+i] = onset[n-1] * float64(half-1-i) / float64(half)
	}
	copy(padded[half:], onset)

	win := periodicHann(winLength)
	nPad := 1
	for nPad < 2*winLength-1 {
		nPad <<= 1
	}

	out := make([][]float64, n)
	buf := make([]float64, nPad)
	for t := 0; t < n; t++ {
		for i := range buf {
			buf[i] = 0
		}
		for i := 0; i < winLength; i++ {
			buf[i] = padded[t+i] * win[i]
		}
		spec := fft.FFTReal(buf)
		for k, c := range spec {
			a := cmplx.Abs(c)
			spec[k] = complex(a*a, 0)
		}
		ac := fft.IFFT(spec)

		row := make([]float64, winLength)
		peak := 0.0
		for k := 0; k < winLength; k++ {
			row[k] = real(ac[k])
			if v := math.Abs(row[k]); v > peak {
				peak = v
			}
		}
		if peak > math.SmallestNonzeroFloat64 {
			for k := range row {
				row[k] /= peak
			}
		}
		out[t] = row
	}
	return out
}

// TempoFrequencies maps autocorrelation lags to BPM. Lag 0 is +Inf.
func TempoFrequencies(nLags, sampleRate, hop int) []float64 {
	bpms := make([]float64, nLags)
	bpms[0] = math.Inf(1)
	for k := 1; k < nLags; k++ {
		bpms[k] = 60.0 * float64(sampleRate) / (float64(hop) * float64(k))
	}
	return bpms
}

// EstimateTempo picks the global tempo from the time averaged tempogram weighted by a log-normal prior.
func EstimateTempo(onset []float64, sampleRate, hop int, opts TempoOptions) float64 {
	if len(onset) == 0 {
		return 0
	}
	winLength := int(opts.ACSize*float64(sampleRate)) / hop
	tg := Tempogram(onset, winLength)

	mean := make([]float64, winLength)
	for _, row := range tg {
		for k, v := range row {
			mean[k] += v
		}
	}
	for k := range mean {
		mean[k] /= float64(len(tg))
	}

	bpms := TempoFrequencies(winLength, sampleRate, hop)
	best, bestScore := 0, math.Inf(-1)
	allowed := false
	for k := 1; k < winLength; k++ {
		if !allowed {
			if bpms[k] >= opts.MaxTempo {
				continue
			}
			allowed = true
		}
		z := (math.Log2(bpms[k]) - math.Log2(opts.StartBPM)) / opts.StdBPM
		score := math.Log1p(1e6*mean[k]) - 0.5*z*z
		if score > bestScore {
			best, bestScore = k, score
		}
	}
	if best == 0 {
		return 0
	}
	return bpms[best]
}
