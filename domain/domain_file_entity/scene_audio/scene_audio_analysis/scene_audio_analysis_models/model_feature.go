package scene_audio_analysis_models

import (
	"fmt"
	"strings"
)

const mfccDescription = "A coefficient describing the timbre."

var featureDescriptions = map[string]string{
	"Duration (s)":           "Length of the track in seconds.",
	"Tempo (BPM)":            "Speed of the music in beats per minute.",
	"Beat count":             "Number of beats detected.",
	"Avg RMS":                "Average loudness of the audio.",
	"Avg Zero Crossing Rate": "How often the signal changes sign; relates to noisiness.",
	"Avg Spectral Centroid":  "Represents brightness; higher means more treble.",
	"Avg Spectral Bandwidth": "How spread out the frequencies are.",
	"Avg Spectral Rolloff":   "Frequency below which most energy lies.",
	"Avg Spectral Flatness":  "How noise-like versus tone-like the sound is.",
	"Avg Spectral Contrast":  "Difference between peaks and valleys in the spectrum.",
}

// DescribeFeature 返回特征的提示文本，未知特征返回空字符串
func DescribeFeature(name string) string {
	if d, ok := featureDescriptions[name]; ok {
		return d
	}
	if strings.HasPrefix(name, "MFCC ") {
		return mfccDescription
	}
	return ""
}

// FormatFeatureValue 两位小数
func FormatFeatureValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FeatureRow 表格中的一行
type FeatureRow struct {
	Feature     string `json:"feature"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

func NewFeatureRow(name string, value float64) FeatureRow {
	return FeatureRow{
		Feature:     name,
		Value:       FormatFeatureValue(value),
		Description: DescribeFeature(name),
	}
}
