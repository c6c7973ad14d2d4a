package scene_audio_analysis_repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type repoPair struct {
	analyses    scene_audio_analysis_interface.AnalysisRepository
	generations scene_audio_analysis_interface.GenerationRepository
}

func backends(t *testing.T) map[string]repoPair {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "riddim.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]repoPair{
		"memory": {NewAnalysisMemoryRepository(), NewGenerationMemoryRepository()},
		"sqlite": {NewAnalysisSQLiteRepository(db), NewGenerationSQLiteRepository(db)},
	}
}

func newAnalysis(name, sortName, checksum string, tempo float64) *scene_audio_analysis_models.AudioAnalysis {
	return &scene_audio_analysis_models.AudioAnalysis{
		Name:            name,
		SortName:        sortName,
		Checksum:        checksum,
		AnalyzerVersion: "v1",
		Tempo:           tempo,
		Features: []scene_audio_analysis_models.FeatureValue{
			{Name: "Tempo (BPM)", Value: tempo},
		},
		Envelope: []float64{0.1, 0.2},
	}
}

func TestAnalysisRepositoryCRUD(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := newAnalysis("Metre_Fault_Line.mp3", "metre_fault_line.mp3", "abc", 117.45)
			require.NoError(t, b.analyses.Upsert(ctx, a))
			require.False(t, a.ID.IsZero())
			assert.False(t, a.CreatedAt.IsZero())

			got, err := b.analyses.GetByID(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, a.Name, got.Name)
			assert.Equal(t, a.Features, got.Features)
			assert.Equal(t, a.Envelope, got.Envelope)

			cached, err := b.analyses.GetByChecksum(ctx, "abc", "v1")
			require.NoError(t, err)
			require.NotNil(t, cached)
			assert.Equal(t, a.ID, cached.ID)

			miss, err := b.analyses.GetByChecksum(ctx, "abc", "v2")
			require.NoError(t, err)
			assert.Nil(t, miss)

			require.NoError(t, b.analyses.Delete(ctx, a.ID))
			_, err = b.analyses.GetByID(ctx, a.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.ErrorIs(t, b.analyses.Delete(ctx, a.ID), domain.ErrNotFound)
		})
	}
}

func TestAnalysisRepositoryKeepsFirstOnChecksumConflict(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := newAnalysis("first.wav", "first.wav", "abc", 100)
			require.NoError(t, b.analyses.Upsert(ctx, first))

			second := newAnalysis("second.wav", "second.wav", "abc", 100)
			require.NoError(t, b.analyses.Upsert(ctx, second))
			assert.Equal(t, first.ID, second.ID)
			assert.Equal(t, "first.wav", second.Name)

			got, err := b.analyses.GetByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "first.wav", got.Name)

			_, total, err := b.analyses.List(ctx, scene_audio_analysis_models.AnalysisQuery{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)

			// 同一 ID 仍可更新
			first.Tempo = 128
			require.NoError(t, b.analyses.Upsert(ctx, first))
			got, err = b.analyses.GetByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, 128.0, got.Tempo)
		})
	}
}

func TestAnalysisRepositoryListSortAndSearch(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			items := []*scene_audio_analysis_models.AudioAnalysis{
				newAnalysis("b_side.wav", "b_side.wav", "1", 90),
				newAnalysis("a_side.wav", "a_side.wav", "2", 140),
				newAnalysis("電子.mp3", "dian zi.mp3", "3", 120),
			}
			for _, a := range items {
				require.NoError(t, b.analyses.Upsert(ctx, a))
				time.Sleep(2 * time.Millisecond)
			}

			q := scene_audio_analysis_models.AnalysisQuery{}
			q.Sort, q.Order = "tempo", "asc"
			list, total, err := b.analyses.List(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			require.Len(t, list, 3)
			assert.Equal(t, []float64{90, 120, 140}, []float64{list[0].Tempo, list[1].Tempo, list[2].Tempo})

			q = scene_audio_analysis_models.AnalysisQuery{PageSize: 2}
			q.Sort, q.Order = "name", "asc"
			list, total, err = b.analyses.List(ctx, q)
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)
			require.Len(t, list, 2)
			assert.Equal(t, "a_side.wav", list[0].Name)
			assert.Equal(t, "b_side.wav", list[1].Name)

			// 简体关键字匹配繁体名称
			list, total, err = b.analyses.List(ctx, scene_audio_analysis_models.AnalysisQuery{Search: "电子"})
			require.NoError(t, err)
			assert.Equal(t, int64(1), total)
			require.Len(t, list, 1)
			assert.Equal(t, "電子.mp3", list[0].Name)

			list, _, err = b.analyses.List(ctx, scene_audio_analysis_models.AnalysisQuery{Search: "_SIDE"})
			require.NoError(t, err)
			assert.Len(t, list, 2)

			list, _, err = b.analyses.List(ctx, scene_audio_analysis_models.AnalysisQuery{})
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "電子.mp3", list[0].Name, "default order is newest first")
		})
	}
}

func TestGenerationRepository(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			analysisID := primitive.NewObjectID()

			first := &scene_audio_analysis_models.AudioGeneration{
				AnalysisID: analysisID,
				Status:     scene_audio_analysis_models.GenerationPending,
				Primer:     scene_audio_analysis_models.PlaceholderPrimer(),
			}
			require.NoError(t, b.generations.Create(ctx, first))
			require.False(t, first.ID.IsZero())

			first.Status = scene_audio_analysis_models.GenerationFailed
			first.Error = "boom"
			require.NoError(t, b.generations.Update(ctx, first))

			time.Sleep(2 * time.Millisecond)
			second := &scene_audio_analysis_models.AudioGeneration{AnalysisID: analysisID, Status: scene_audio_analysis_models.GenerationSucceeded}
			require.NoError(t, b.generations.Create(ctx, second))
			other := &scene_audio_analysis_models.AudioGeneration{AnalysisID: primitive.NewObjectID()}
			require.NoError(t, b.generations.Create(ctx, other))

			got, err := b.generations.GetByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, scene_audio_analysis_models.GenerationFailed, got.Status)
			assert.Equal(t, "boom", got.Error)

			list, err := b.generations.ListByAnalysis(ctx, analysisID)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, second.ID, list[0].ID)

			_, err = b.generations.GetByID(ctx, primitive.NewObjectID())
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestSearchVariants(t *testing.T) {
	assert.Nil(t, searchVariants("  "))
	assert.Equal(t, []string{"beat"}, searchVariants("beat"))
	assert.Contains(t, searchVariants("電子"), "电子")
	assert.Equal(t, `a\.b`, buildSearchRegex("a.b"))
}
