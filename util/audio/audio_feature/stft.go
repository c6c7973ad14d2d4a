package audio_feature

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrogram holds a magnitude STFT indexed as [frame][bin].
type Spectrogram struct {
	Frames     [][]float64
	NFFT       int
	HopLength  int
	SampleRate int
}

func (s *Spectrogram) Bins() int {
	return s.NFFT/2 + 1
}

// Frequencies returns the centre frequency of every bin.
func (s *Spectrogram) Frequencies() []float64 {
	freqs := make([]float64, s.Bins())
	for k := range freqs {
		freqs[k] = float64(k) * float64(s.SampleRate) / float64(s.NFFT)
	}
	return freqs
}

// Power returns |S|^2 in a new matrix.
func (s *Spectrogram) Power() [][]float64 {
	out := make([][]float64, len(s.Frames))
	for t, frame := range s.Frames {
		row := make([]float64, len(frame))
		for k, v := range frame {
			row[k] = v * v
		}
		out[t] = row
	}
	return out
}

// periodicHann returns the DFT-even Hann window used for spectral analysis.
func periodicHann(n int) []float64 {
	return window.Hann(n + 1)[:n]
}

// STFT computes a centred, zero padded magnitude spectrogram.
func STFT(y []float64, sampleRate, nFFT, hop int) *Spectrogram {
	padded := padCenter(y, nFFT, false)
	win := periodicHann(nFFT)
	nFrames := frameCount(len(y), hop)
	bins := nFFT/2 + 1

	frames := make([][]float64, nFrames)
	buf := make([]float64, nFFT)
	for t := 0; t < nFrames; t++ {
		start := t * hop
		for k := 0; k < nFFT; k++ {
			buf[k] = padded[start+k] * win[k]
		}
		spec := fft.FFTReal(buf)
		row := make([]float64, bins)
		for k := 0; k < bins; k++ {
			row[k] = cmplx.Abs(spec[k])
		}
		frames[t] = row
	}

	return &Spectrogram{
		Frames:     frames,
		NFFT:       nFFT,
		HopLength:  hop,
		SampleRate: sampleRate,
	}
}
