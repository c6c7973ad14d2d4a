package audio_feature

import (
	"errors"
	"math"
)

const (
	DefaultSampleRate = 22050
	DefaultNFFT       = 2048
	DefaultHopLength  = 512
	DefaultNMels      = 128
	DefaultNMFCC      = 10

	// 功率谱下限与 dB 动态范围
	amin  = 1e-10
	topDB = 80.0
)

var ErrEmptySignal = errors.New("audio_feature: empty signal")

// Signal is a mono PCM buffer in [-1, 1].
type Signal struct {
	Samples    []float64
	SampleRate int
}

func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// MixToMono averages interleaved channels.
func MixToMono(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		out := make([]float64, len(interleaved))
		copy(out, interleaved)
		return out
	}
	n := len(interleaved) / channels
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// Resample converts y from one rate to another with linear interpolation.
// Downsampling runs a single-pole low-pass at the target Nyquist first.
func Resample(y []float64, from, to int) []float64 {
	if len(y) == 0 || from <= 0 || to <= 0 {
		return nil
	}
	if from == to {
		out := make([]float64, len(y))
		copy(out, y)
		return out
	}

	src := y
	if to < from {
		src = lowPass(y, float64(to)/2, float64(from))
	}

	n := int(math.Ceil(float64(len(src)) * float64(to) / float64(from)))
	ratio := float64(from) / float64(to)
	out := make([]float64, n)
	last := len(src) - 1
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= last {
			out[i] = src[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = src[idx]*(1-frac) + src[idx+1]*frac
	}
	return out
}

func lowPass(y []float64, cutoff, sampleRate float64) []float64 {
	rc := 1.0 / (2 * math.Pi * cutoff)
	dt := 1.0 / sampleRate
	alpha := dt / (rc + dt)

	out := make([]float64, len(y))
	out[0] = y[0]
	for i := 1; i < len(y); i++ {
		out[i] = out[i-1] + alpha*(y[i]-out[i-1])
	}
	return out
}

func frameCount(n, hop int) int {
	return 1 + n/hop
}

// padCenter pads by half a frame on each side. edge=true repeats the border samples, otherwise zeros.
func padCenter(y []float64, nFFT int, edge bool) []float64 {
	half := nFFT / 2
	out := make([]float64, len(y)+2*half)
	copy(out[half:], y)
	if edge && len(y) > 0 {
		for i := 0; i < half; i++ {
			out[i] = y[0]
			out[len(out)-1-i] = y[len(y)-1]
		}
	}
	return out
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
