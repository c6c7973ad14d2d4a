package audio_feature

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, amp, seconds float64, sr int) []float64 {
	n := int(seconds * float64(sr))
	y := make([]float64, n)
	for i := range y {
		y[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sr))
	}
	return y
}

// clickTrain places a decaying noise burst every step samples.
func clickTrain(step int, seconds float64, sr int) []float64 {
	rng := rand.New(rand.NewSource(7))
	y := make([]float64, int(seconds*float64(sr)))
	for start := sr / 4; start < len(y); start += step {
		for i := 0; i < 512 && start+i < len(y); i++ {
			y[start+i] = (rng.Float64()*2 - 1) * math.Exp(-float64(i)/80)
		}
	}
	return y
}

func TestFeatureNames(t *testing.T) {
	names := FeatureNames(DefaultNMFCC)
	require.Len(t, names, 20)
	assert.Equal(t, "Duration (s)", names[0])
	assert.Equal(t, "Tempo (BPM)", names[1])
	assert.Equal(t, "Avg Spectral Contrast", names[9])
	assert.Equal(t, "MFCC 1", names[10])
	assert.Equal(t, "MFCC 10", names[19])
}

func TestExtractEmptySignal(t *testing.T) {
	_, err := Extract(Signal{SampleRate: DefaultSampleRate}, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptySignal)
}

func TestExtractSine(t *testing.T) {
	sr := DefaultSampleRate
	res, err := Extract(Signal{Samples: sine(440, 0.5, 3, sr), SampleRate: sr}, DefaultOptions())
	require.NoError(t, err)

	names := FeatureNames(DefaultNMFCC)
	require.Len(t, res.Features, len(names))
	for i, f := range res.Features {
		assert.Equal(t, names[i], f.Name)
		assert.False(t, math.IsNaN(f.Value) || math.IsInf(f.Value, 0), f.Name)
	}

	get := func(name string) float64 {
		v, ok := res.Value(name)
		require.True(t, ok, name)
		return v
	}
	assert.InDelta(t, 3.0, get(FeatureDuration), 1e-3)
	assert.InDelta(t, 0.5/math.Sqrt2, get(FeatureRMS), 0.02)
	assert.InDelta(t, 2*440.0/float64(sr), get(FeatureZeroCrossingRate), 0.003)
	assert.InDelta(t, 440, get(FeatureSpectralCentroid), 50)
	assert.Less(t, get(FeatureSpectralFlatness), 0.1)
	assert.Greater(t, get(FeatureSpectralContrast), 0.0)
	assert.NotEmpty(t, res.Envelope)
}

func TestExtractSilence(t *testing.T) {
	sr := DefaultSampleRate
	res, err := Extract(Signal{Samples: make([]float64, 2*sr), SampleRate: sr}, DefaultOptions())
	require.NoError(t, err)

	v, _ := res.Value(FeatureTempo)
	assert.Equal(t, 0.0, v)
	v, _ = res.Value(FeatureBeatCount)
	assert.Equal(t, 0.0, v)
	v, _ = res.Value(FeatureRMS)
	assert.Equal(t, 0.0, v)
	v, _ = res.Value(FeatureSpectralCentroid)
	assert.Equal(t, 0.0, v)
	v, _ = res.Value(FeatureSpectralFlatness)
	assert.InDelta(t, 1.0, v, 1e-9)
	assert.Empty(t, res.BeatTimes)
}

func TestExtractResamplesInput(t *testing.T) {
	res, err := Extract(Signal{Samples: sine(440, 0.5, 2, 44100), SampleRate: 44100}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, DefaultSampleRate, res.SampleRate)
	assert.InDelta(t, 2.0, res.Duration, 1e-3)
}

func TestClickTrainTempoAndBeats(t *testing.T) {
	sr := DefaultSampleRate
	// 22 hops per beat, about 117.45 BPM
	res, err := Extract(Signal{Samples: clickTrain(22*DefaultHopLength, 12, sr), SampleRate: sr}, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 60.0*float64(sr)/float64(22*DefaultHopLength), res.Tempo, 1.0)
	assert.GreaterOrEqual(t, len(res.BeatFrames), 15)
	assert.LessOrEqual(t, len(res.BeatFrames), 25)
	for i := 1; i < len(res.BeatFrames); i++ {
		assert.Greater(t, res.BeatFrames[i], res.BeatFrames[i-1])
	}
	require.Len(t, res.BeatTimes, len(res.BeatFrames))
}

func TestPeakEnvelope(t *testing.T) {
	env := PeakEnvelope([]float64{0.1, -0.9, 0.2, 0.3, -0.4, 0.5}, 3)
	assert.Equal(t, []float64{0.9, 0.3, 0.5}, env)
	assert.Nil(t, PeakEnvelope(nil, 3))
}
