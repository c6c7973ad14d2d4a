package audio_feature

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const beatTightness = 100.0

// TrackBeats runs dynamic-programming beat tracking over an onset envelope
// and returns beat positions as frame indices.
func TrackBeats(onset []float64, bpm float64, sampleRate, hop int) []int {
	if len(onset) == 0 || bpm <= 0 || !anyNonZero(onset) {
		return nil
	}
	frameRate := float64(sampleRate) / float64(hop)
	period := int(math.RoundToEven(60.0 * frameRate / bpm))
	if period < 1 {
		period = 1
	}

	local := beatLocalScore(onset, period)
	backlink, cum := beatTrackDP(local, period)
	tail := lastBeat(cum)
	if tail < 0 {
		return nil
	}

	var reversed []int
	for b := tail; b >= 0; b = backlink[b] {
		reversed = append(reversed, b)
	}
	beats := make([]int, len(reversed))
	for i, b := range reversed {
		beats[len(reversed)-1-i] = b
	}
	return trimBeats(local, beats)
}

// BeatTimes converts beat frames to seconds.
func BeatTimes(frames []int, sampleRate, hop int) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = float64(f*hop) / float64(sampleRate)
	}
	return out
}

func beatLocalScore(onset []float64, period int) []float64 {
	norm := onset
	if sd := stat.StdDev(onset, nil); sd > 0 {
		norm = make([]float64, len(onset))
		for i, v := range onset {
			norm[i] = v / sd
		}
	}

	kernel := make([]float64, 2*period+1)
	for i := range kernel {
		x := float64(i-period) * 32.0 / float64(period)
		kernel[i] = math.Exp(-0.5 * x * x)
	}
	return convolveSame(norm, kernel)
}

// convolveSame convolves with an odd length symmetric kernel, keeping the input length.
func convolveSame(x, kernel []float64) []float64 {
	half := len(kernel) / 2
	out := make([]float64, len(x))
	for t := range x {
		var acc float64
		for j, w := range kernel {
			i := t + j - half
			if i < 0 || i >= len(x) {
				continue
			}
			acc += x[i] * w
		}
		out[t] = acc
	}
	return out
}

func beatTrackDP(local []float64, period int) ([]int, []float64) {
	n := len(local)
	backlink := make([]int, n)
	cum := make([]float64, n)

	lo := -2 * period
	hi := -int(math.RoundToEven(float64(period) / 2))
	txwt := make([]float64, 0, hi-lo+1)
	for w := lo; w <= hi; w++ {
		l := math.Log(-float64(w) / float64(period))
		txwt = append(txwt, -beatTightness*l*l)
	}

	maxLocal := math.Inf(-1)
	for _, v := range local {
		maxLocal = math.Max(maxLocal, v)
	}

	firstBeat := true
	for i, score := range local {
		bestIdx, best := 0, math.Inf(-1)
		for j, wt := range txwt {
			cand := wt
			if prev := i + lo + j; prev >= 0 {
				cand += cum[prev]
			}
			if cand > best {
				bestIdx, best = j, cand
			}
		}
		cum[i] = score + best
		if firstBeat && score < 0.01*maxLocal {
			backlink[i] = -1
		} else {
			backlink[i] = i + lo + bestIdx
			firstBeat = false
		}
	}
	return backlink, cum
}

// lastBeat picks the final local maximum of the cumulative score above half the median peak.
func lastBeat(cum []float64) int {
	n := len(cum)
	var peaks []float64
	isMax := make([]bool, n)
	for i := 1; i < n; i++ {
		next := cum[i]
		if i+1 < n {
			next = cum[i+1]
		}
		if cum[i] > cum[i-1] && cum[i] >= next {
			isMax[i] = true
			peaks = append(peaks, cum[i])
		}
	}
	if len(peaks) == 0 {
		return -1
	}
	med := median(peaks)
	for i := n - 1; i >= 0; i-- {
		v := 0.0
		if isMax[i] {
			v = 2 * cum[i]
		}
		if v > med {
			return i
		}
	}
	return -1
}

// trimBeats drops weak leading and trailing beats using a 5 point Hann smoothing of the local score.
func trimBeats(local []float64, beats []int) []int {
	if len(beats) == 0 {
		return nil
	}
	onBeat := make([]float64, len(beats))
	for i, b := range beats {
		onBeat[i] = local[b]
	}
	smooth := convolveSame(onBeat, []float64{0, 0.5, 1, 0.5, 0})

	var sq float64
	for _, v := range smooth {
		sq += v * v
	}
	threshold := 0.5 * math.Sqrt(sq/float64(len(smooth)))

	first, last := -1, -1
	for i, v := range smooth {
		if v > threshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil
	}
	return append([]int(nil), beats[first:last]...)
}

func anyNonZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}
