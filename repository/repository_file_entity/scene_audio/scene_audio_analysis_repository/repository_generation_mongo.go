package scene_audio_analysis_repository

import (
	"context"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/riddim-exe/riddim/mongo"
	"github.com/riddim-exe/riddim/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type generationMongoRepository struct {
	*repository.BaseMongoRepository[scene_audio_analysis_models.AudioGeneration]
}

func NewGenerationMongoRepository(db mongo.Database) scene_audio_analysis_interface.GenerationRepository {
	return &generationMongoRepository{
		BaseMongoRepository: repository.NewBaseMongoRepository[scene_audio_analysis_models.AudioGeneration](
			db, domain.CollectionFileEntityAudioSceneGeneration,
		),
	}
}

func (r *generationMongoRepository) ListByAnalysis(
	ctx context.Context,
	analysisID primitive.ObjectID,
) ([]*scene_audio_analysis_models.AudioGeneration, error) {
	return r.GetByFilter(ctx,
		bson.M{"analysis_id": analysisID},
		bson.D{{Key: "created_at", Value: -1}},
	)
}
