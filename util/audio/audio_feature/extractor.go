package audio_feature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	FeatureDuration          = "Duration (s)"
	FeatureTempo             = "Tempo (BPM)"
	FeatureBeatCount         = "Beat count"
	FeatureRMS               = "Avg RMS"
	FeatureZeroCrossingRate  = "Avg Zero Crossing Rate"
	FeatureSpectralCentroid  = "Avg Spectral Centroid"
	FeatureSpectralBandwidth = "Avg Spectral Bandwidth"
	FeatureSpectralRolloff   = "Avg Spectral Rolloff"
	FeatureSpectralFlatness  = "Avg Spectral Flatness"
	FeatureSpectralContrast  = "Avg Spectral Contrast"
)

// MFCCFeatureName returns the display name of the i-th (0-based) cepstral coefficient.
func MFCCFeatureName(i int) string {
	return fmt.Sprintf("MFCC %d", i+1)
}

// FeatureNames lists the feature vector in display order.
func FeatureNames(nMFCC int) []string {
	names := []string{
		FeatureDuration,
		FeatureTempo,
		FeatureBeatCount,
		FeatureRMS,
		FeatureZeroCrossingRate,
		FeatureSpectralCentroid,
		FeatureSpectralBandwidth,
		FeatureSpectralRolloff,
		FeatureSpectralFlatness,
		FeatureSpectralContrast,
	}
	for i := 0; i < nMFCC; i++ {
		names = append(names, MFCCFeatureName(i))
	}
	return names
}

// Options contains the analysis parameters.
type Options struct {
	// SampleRate is the analysis rate; input is resampled to it.
	SampleRate int
	NFFT       int
	HopLength  int
	NMels      int
	NMFCC      int
	// RollPercent is the energy fraction used by the spectral rolloff.
	RollPercent float64
	// ContrastFMin, ContrastBands and ContrastQuantile configure spectral contrast.
	ContrastFMin     float64
	ContrastBands    int
	ContrastQuantile float64
	// EnvelopePoints is the number of peak buckets returned for waveform rendering.
	EnvelopePoints int
	Tempo          TempoOptions
}

func DefaultOptions() Options {
	return Options{
		SampleRate:       DefaultSampleRate,
		NFFT:             DefaultNFFT,
		HopLength:        DefaultHopLength,
		NMels:            DefaultNMels,
		NMFCC:            DefaultNMFCC,
		RollPercent:      0.85,
		ContrastFMin:     200,
		ContrastBands:    6,
		ContrastQuantile: 0.02,
		EnvelopePoints:   1200,
		Tempo:            DefaultTempoOptions(),
	}
}

// MinSampleRate is the rate every analysis rate must exceed so that all spectral
// contrast band edges stay below Nyquist.
func (o Options) MinSampleRate() int {
	if o.ContrastBands <= 0 {
		return 0
	}
	return int(2*o.ContrastFMin) << uint(o.ContrastBands-1)
}

// Feature is one named scalar of the feature vector.
type Feature struct {
	Name  string
	Value float64
}

// Result is the output of Extract.
type Result struct {
	Features   []Feature
	Duration   float64
	Tempo      float64
	BeatFrames []int
	BeatTimes  []float64
	// Envelope holds per-bucket peak amplitudes of the analysed signal.
	Envelope   []float64
	SampleRate int
}

// Value looks a feature up by name.
func (r *Result) Value(name string) (float64, bool) {
	for _, f := range r.Features {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

// Extract computes the full feature vector of a signal.
func Extract(sig Signal, opts Options) (*Result, error) {
	if len(sig.Samples) == 0 || sig.SampleRate <= 0 {
		return nil, ErrEmptySignal
	}

	sr := opts.SampleRate
	y := sig.Samples
	if sig.SampleRate != sr {
		y = Resample(y, sig.SampleRate, sr)
	}
	if len(y) == 0 {
		return nil, ErrEmptySignal
	}

	spec := STFT(y, sr, opts.NFFT, opts.HopLength)
	bank := MelFilterBank(sr, opts.NFFT, opts.NMels)
	melDB := PowerToDB(MelSpectrogram(spec.Power(), bank), topDB)

	onset := OnsetStrength(melDB, opts.NFFT, opts.HopLength, MedianAggregate)
	var tempo float64
	var beats []int
	if anyNonZero(onset) {
		tempo = EstimateTempo(onset, sr, opts.HopLength, opts.Tempo)
		beats = TrackBeats(onset, tempo, sr, opts.HopLength)
	}

	contrast, err := SpectralContrast(spec, opts.ContrastFMin, opts.ContrastBands, opts.ContrastQuantile)
	if err != nil {
		return nil, fmt.Errorf("spectral contrast: %w", err)
	}

	duration := sig.Duration()
	features := []Feature{
		{FeatureDuration, duration},
		{FeatureTempo, tempo},
		{FeatureBeatCount, float64(len(beats))},
		{FeatureRMS, stat.Mean(RMS(y, opts.NFFT, opts.HopLength), nil)},
		{FeatureZeroCrossingRate, stat.Mean(ZeroCrossingRate(y, opts.NFFT, opts.HopLength), nil)},
		{FeatureSpectralCentroid, stat.Mean(SpectralCentroid(spec), nil)},
		{FeatureSpectralBandwidth, stat.Mean(SpectralBandwidth(spec), nil)},
		{FeatureSpectralRolloff, stat.Mean(SpectralRolloff(spec, opts.RollPercent), nil)},
		{FeatureSpectralFlatness, stat.Mean(SpectralFlatness(spec), nil)},
		{FeatureSpectralContrast, matrixMean(contrast)},
	}
	for i, row := range MFCC(melDB, opts.NMFCC) {
		features = append(features, Feature{MFCCFeatureName(i), stat.Mean(row, nil)})
	}
	for i := range features {
		features[i].Value = finite(features[i].Value)
	}

	return &Result{
		Features:   features,
		Duration:   duration,
		Tempo:      tempo,
		BeatFrames: beats,
		BeatTimes:  BeatTimes(beats, sr, opts.HopLength),
		Envelope:   PeakEnvelope(y, opts.EnvelopePoints),
		SampleRate: sr,
	}, nil
}

// PeakEnvelope splits y into n buckets and keeps the absolute peak of each.
func PeakEnvelope(y []float64, n int) []float64 {
	if n <= 0 || len(y) == 0 {
		return nil
	}
	if n > len(y) {
		n = len(y)
	}
	out := make([]float64, n)
	size := float64(len(y)) / float64(n)
	for i := 0; i < n; i++ {
		start := int(float64(i) * size)
		end := int(float64(i+1) * size)
		if end <= start {
			end = start + 1
		}
		if end > len(y) {
			end = len(y)
		}
		for _, v := range y[start:end] {
			out[i] = math.Max(out[i], math.Abs(v))
		}
	}
	return out
}

func matrixMean(m [][]float64) float64 {
	var sum float64
	var n int
	for _, row := range m {
		for _, v := range row {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
