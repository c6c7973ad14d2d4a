package audio_feature

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Slaney mel scale: linear below 1 kHz, logarithmic above.
const (
	melFSp       = 200.0 / 3
	melMinLogHz  = 1000.0
	melMinLogMel = melMinLogHz / melFSp
)

var melLogStep = math.Log(6.4) / 27.0

func HzToMel(hz float64) float64 {
	if hz >= melMinLogHz {
		return melMinLogMel + math.Log(hz/melMinLogHz)/melLogStep
	}
	return hz / melFSp
}

func MelToHz(mel float64) float64 {
	if mel >= melMinLogMel {
		return melMinLogHz * math.Exp(melLogStep*(mel-melMinLogMel))
	}
	return melFSp * mel
}

// MelFilter is one triangular band, non-zero on bins [Start, Start+len(Weights)).
type MelFilter struct {
	Start   int
	Weights []float64
}

// MelFilterBank builds nMels area-normalised triangular filters between 0 Hz and Nyquist.
func MelFilterBank(sampleRate, nFFT, nMels int) []MelFilter {
	bins := nFFT/2 + 1
	fftFreqs := make([]float64, bins)
	for k := range fftFreqs {
		fftFreqs[k] = float64(k) * float64(sampleRate) / float64(nFFT)
	}

	maxMel := HzToMel(float64(sampleRate) / 2)
	melF := make([]float64, nMels+2)
	for i := range melF {
		melF[i] = MelToHz(maxMel * float64(i) / float64(nMels+1))
	}

	bank := make([]MelFilter, nMels)
	for i := 0; i < nMels; i++ {
		lowDiff := melF[i+1] - melF[i]
		highDiff := melF[i+2] - melF[i+1]
		enorm := 2.0 / (melF[i+2] - melF[i])

		start := -1
		var weights []float64
		for k, f := range fftFreqs {
			lower := (f - melF[i]) / lowDiff
			upper := (melF[i+2] - f) / highDiff
			w := math.Max(0, math.Min(lower, upper))
			if w <= 0 {
				if start >= 0 {
					break
				}
				continue
			}
			if start < 0 {
				start = k
			}
			weights = append(weights, w*enorm)
		}
		if start < 0 {
			start = 0
		}
		bank[i] = MelFilter{Start: start, Weights: weights}
	}
	return bank
}

// MelSpectrogram projects a power spectrogram onto the filter bank, indexed [mel][frame].
func MelSpectrogram(power [][]float64, bank []MelFilter) [][]float64 {
	out := make([][]float64, len(bank))
	for m, filter := range bank {
		row := make([]float64, len(power))
		for t, frame := range power {
			var acc float64
			for j, w := range filter.Weights {
				acc += w * frame[filter.Start+j]
			}
			row[t] = acc
		}
		out[m] = row
	}
	return out
}

// PowerToDB converts a matrix to decibels (ref 1.0) and clips everything
// more than topDB below the global maximum.
func PowerToDB(x [][]float64, topDB float64) [][]float64 {
	out := make([][]float64, len(x))
	maxDB := math.Inf(-1)
	for i, row := range x {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = 10 * math.Log10(math.Max(amin, v))
			if r[j] > maxDB {
				maxDB = r[j]
			}
		}
		out[i] = r
	}
	if topDB > 0 {
		floor := maxDB - topDB
		for _, row := range out {
			for j, v := range row {
				if v < floor {
					row[j] = floor
				}
			}
		}
	}
	return out
}

// MFCC applies an orthonormal DCT-II to a dB mel spectrogram and keeps nMFCC rows.
func MFCC(melDB [][]float64, nMFCC int) [][]float64 {
	nMels := len(melDB)
	if nMels == 0 {
		return nil
	}
	if nMFCC > nMels {
		nMFCC = nMels
	}
	nFrames := len(melDB[0])

	// CosSequence 是放大 4 倍的 DCT-II
	qw := fourier.NewQuarterWaveFFT(nMels)
	scale0 := math.Sqrt(1/float64(nMels)) / 4
	scale := math.Sqrt(2/float64(nMels)) / 4

	out := make([][]float64, nMFCC)
	for c := range out {
		out[c] = make([]float64, nFrames)
	}
	col := make([]float64, nMels)
	coeff := make([]float64, nMels)
	for t := 0; t < nFrames; t++ {
		for m := range col {
			col[m] = melDB[m][t]
		}
		qw.CosSequence(coeff, col)
		out[0][t] = scale0 * coeff[0]
		for c := 1; c < nMFCC; c++ {
			out[c][t] = scale * coeff[c]
		}
	}
	return out
}
