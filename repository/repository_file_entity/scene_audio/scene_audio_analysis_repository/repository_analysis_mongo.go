package scene_audio_analysis_repository

import (
	"context"
	"fmt"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/riddim-exe/riddim/mongo"
	"github.com/riddim-exe/riddim/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
)

type analysisMongoRepository struct {
	*repository.BaseMongoRepository[scene_audio_analysis_models.AudioAnalysis]
}

func NewAnalysisMongoRepository(db mongo.Database) scene_audio_analysis_interface.AnalysisRepository {
	return &analysisMongoRepository{
		BaseMongoRepository: repository.NewBaseMongoRepository[scene_audio_analysis_models.AudioAnalysis](
			db, domain.CollectionFileEntityAudioSceneAnalysis,
		),
	}
}

func (r *analysisMongoRepository) Upsert(ctx context.Context, analysis *scene_audio_analysis_models.AudioAnalysis) error {
	if !analysis.ID.IsZero() {
		return r.Update(ctx, analysis)
	}

	err := r.Create(ctx, analysis)
	if err == nil || !driver.IsDuplicateKeyError(err) {
		return err
	}
	// (checksum, analyzer_version) 唯一索引冲突，返回已有记录
	existing, getErr := r.GetByChecksum(ctx, analysis.Checksum, analysis.AnalyzerVersion)
	if getErr != nil {
		return getErr
	}
	if existing == nil {
		return err
	}
	*analysis = *existing
	return nil
}

func (r *analysisMongoRepository) GetByChecksum(
	ctx context.Context,
	checksum, analyzerVersion string,
) (*scene_audio_analysis_models.AudioAnalysis, error) {
	return r.GetOneByFilter(ctx, bson.M{
		"checksum":         checksum,
		"analyzer_version": analyzerVersion,
	})
}

func (r *analysisMongoRepository) List(
	ctx context.Context,
	query scene_audio_analysis_models.AnalysisQuery,
) ([]*scene_audio_analysis_models.AudioAnalysis, int64, error) {
	query.Normalize()

	filter := bson.M{}
	if pattern := buildSearchRegex(query.Search); pattern != "" {
		or := make(bson.A, 0, len(searchableFields))
		for _, field := range searchableFields {
			or = append(or, bson.M{field: primitive.Regex{Pattern: pattern, Options: "i"}})
		}
		filter["$or"] = or
	}

	dir := 1
	if query.IsDesc() {
		dir = -1
	}
	sort := bson.D{{Key: query.SortField(), Value: dir}, {Key: "_id", Value: dir}}

	total, err := r.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := r.GetPaginated(ctx, filter, sort, query.Skip(), query.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("查询分析历史失败: %w", err)
	}
	return items, total, nil
}
