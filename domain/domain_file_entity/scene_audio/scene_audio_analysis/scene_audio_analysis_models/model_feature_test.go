package scene_audio_analysis_models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeFeature(t *testing.T) {
	assert.Equal(t, "Length of the track in seconds.", DescribeFeature("Duration (s)"))
	assert.Equal(t, "Number of beats detected.", DescribeFeature("Beat count"))
	assert.Equal(t, "A coefficient describing the timbre.", DescribeFeature("MFCC 1"))
	assert.Equal(t, "A coefficient describing the timbre.", DescribeFeature("MFCC 10"))
	assert.Equal(t, "", DescribeFeature("Loudness war index"))
}

func TestFormatFeatureValue(t *testing.T) {
	assert.Equal(t, "3.14", FormatFeatureValue(3.14159))
	assert.Equal(t, "120.00", FormatFeatureValue(120))
	assert.Equal(t, "-0.50", FormatFeatureValue(-0.499))
}

func TestRowsKeepFeatureOrder(t *testing.T) {
	a := &AudioAnalysis{Features: []FeatureValue{
		{Name: "Tempo (BPM)", Value: 117.453},
		{Name: "MFCC 2", Value: 12},
	}}
	rows := a.Rows()
	assert.Equal(t, []FeatureRow{
		{Feature: "Tempo (BPM)", Value: "117.45", Description: "Speed of the music in beats per minute."},
		{Feature: "MFCC 2", Value: "12.00", Description: "A coefficient describing the timbre."},
	}, rows)
}

func TestAnalysisQueryNormalize(t *testing.T) {
	q := AnalysisQuery{PageSize: 5000}
	q.Sort = "drop table"
	q.Normalize()
	assert.Equal(t, int64(1), q.Page)
	assert.Equal(t, int64(MaxPageSize), q.PageSize)
	assert.Equal(t, "created_at", q.Sort)
	assert.Equal(t, int64(0), q.Skip())

	q = AnalysisQuery{Page: 3, PageSize: 10}
	q.Sort = "name"
	q.Normalize()
	assert.Equal(t, "sort_name", q.SortField())
	assert.Equal(t, int64(20), q.Skip())
	assert.True(t, q.IsDesc())
}

func TestPlaceholderPrimerIsEmpty(t *testing.T) {
	p := PlaceholderPrimer()
	assert.Empty(t, p.Notes)
	assert.NotNil(t, p.Notes)
	assert.Equal(t, 0.0, p.TotalTime)
}
