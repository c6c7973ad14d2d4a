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

type generationMemoryRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID]scene_audio_analysis_models.AudioGeneration
}

func NewGenerationMemoryRepository() scene_audio_analysis_interface.GenerationRepository {
	return &generationMemoryRepository{
		items: make(map[primitive.ObjectID]scene_audio_analysis_models.AudioGeneration),
	}
}

func (r *generationMemoryRepository) Create(_ context.Context, g *scene_audio_analysis_models.AudioGeneration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	r.items[g.ID] = *g
	return nil
}

func (r *generationMemoryRepository) Update(_ context.Context, g *scene_audio_analysis_models.AudioGeneration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID.IsZero() {
		return domain.ErrInvalidID
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	g.UpdatedAt = time.Now()
	r.items[g.ID] = *g
	return nil
}

func (r *generationMemoryRepository) GetByID(_ context.Context, id primitive.ObjectID) (*scene_audio_analysis_models.AudioGeneration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
	}
	return &item, nil
}

func (r *generationMemoryRepository) ListByAnalysis(
	_ context.Context,
	analysisID primitive.ObjectID,
) ([]*scene_audio_analysis_models.AudioGeneration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*scene_audio_analysis_models.AudioGeneration
	for _, item := range r.items {
		if item.AnalysisID == analysisID {
			item := item
			out = append(out, &item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
