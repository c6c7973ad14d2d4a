package scene_audio_analysis_repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// analysisMemoryRepository 进程内存储，用于命令行与测试
type analysisMemoryRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]scene_audio_analysis_models.AudioAnalysis
}

func NewAnalysisMemoryRepository() scene_audio_analysis_interface.AnalysisRepository {
	return &analysisMemoryRepository{
		items: make(map[primitive.ObjectID]scene_audio_analysis_models.AudioAnalysis),
	}
}

func (r *analysisMemoryRepository) Upsert(_ context.Context, analysis *scene_audio_analysis_models.AudioAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[analysis.ID]; !ok {
		for _, item := range r.items {
			if item.Checksum == analysis.Checksum && item.AnalyzerVersion == analysis.AnalyzerVersion {
				*analysis = item
				return nil
			}
		}
	}

	now := time.Now()
	if analysis.ID.IsZero() {
		analysis.ID = primitive.NewObjectID()
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.UpdatedAt = now
	r.items[analysis.ID] = *analysis
	return nil
}

func (r *analysisMemoryRepository) GetByID(_ context.Context, id primitive.ObjectID) (*scene_audio_analysis_models.AudioAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
	}
	return &item, nil
}

func (r *analysisMemoryRepository) GetByChecksum(
	_ context.Context,
	checksum, analyzerVersion string,
) (*scene_audio_analysis_models.AudioAnalysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Checksum == checksum && item.AnalyzerVersion == analyzerVersion {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (r *analysisMemoryRepository) List(
	_ context.Context,
	query scene_audio_analysis_models.AnalysisQuery,
) ([]*scene_audio_analysis_models.AudioAnalysis, int64, error) {
	query.Normalize()
	variants := searchVariants(query.Search)

	r.mu.RLock()
	matched := make([]*scene_audio_analysis_models.AudioAnalysis, 0, len(r.items))
	for _, item := range r.items {
		item := item
		if matchesSearch(&item, variants) {
			matched = append(matched, &item)
		}
	}
	r.mu.RUnlock()

	sortAnalyses(matched, query)

	total := int64(len(matched))
	start := query.Skip()
	if start > total {
		start = total
	}
	end := start + query.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *analysisMemoryRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
	}
	delete(r.items, id)
	return nil
}

func sortAnalyses(items []*scene_audio_analysis_models.AudioAnalysis, query scene_audio_analysis_models.AnalysisQuery) {
	less := func(a, b *scene_audio_analysis_models.AudioAnalysis) bool {
		switch query.Sort {
		case "name":
			if a.SortName != b.SortName {
				return a.SortName < b.SortName
			}
		case "tempo":
			if a.Tempo != b.Tempo {
				return a.Tempo < b.Tempo
			}
		case "duration":
			if a.Duration != b.Duration {
				return a.Duration < b.Duration
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID.Hex() < b.ID.Hex()
	}
	desc := query.IsDesc()
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
