package scene_audio_analysis_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type generationSQLiteRepository struct {
	db *sql.DB
}

func NewGenerationSQLiteRepository(db *sql.DB) scene_audio_analysis_interface.GenerationRepository {
	return &generationSQLiteRepository{db: db}
}

func (r *generationSQLiteRepository) Create(ctx context.Context, g *scene_audio_analysis_models.AudioGeneration) error {
	if g.ID.IsZero() {
		g.ID = primitive.NewObjectID()
	}
	g.CreatedAt = time.Time{}
	return r.save(ctx, g)
}

func (r *generationSQLiteRepository) Update(ctx context.Context, g *scene_audio_analysis_models.AudioGeneration) error {
	if g.ID.IsZero() {
		return domain.ErrInvalidID
	}
	return r.save(ctx, g)
}

func (r *generationSQLiteRepository) save(ctx context.Context, g *scene_audio_analysis_models.AudioGeneration) error {
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	doc, err := bson.Marshal(g)
	if err != nil {
		return fmt.Errorf("序列化生成记录失败: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO generations (id, analysis_id, status, created_at, updated_at, doc)
        VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID.Hex(), g.AnalysisID.Hex(), string(g.Status), g.CreatedAt.UnixNano(), g.UpdatedAt.UnixNano(), doc,
	)
	if err != nil {
		return fmt.Errorf("保存生成记录失败: %w", err)
	}
	return nil
}

func (r *generationSQLiteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*scene_audio_analysis_models.AudioGeneration, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM generations WHERE id = ?`, id.Hex()).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("查询生成记录失败: %w", err)
	}
	return decodeGeneration(doc)
}

func (r *generationSQLiteRepository) ListByAnalysis(
	ctx context.Context,
	analysisID primitive.ObjectID,
) ([]*scene_audio_analysis_models.AudioGeneration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT doc FROM generations WHERE analysis_id = ? ORDER BY created_at DESC`, analysisID.Hex())
	if err != nil {
		return nil, fmt.Errorf("查询生成记录失败: %w", err)
	}
	defer rows.Close()

	var out []*scene_audio_analysis_models.AudioGeneration
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		g, err := decodeGeneration(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func decodeGeneration(doc []byte) (*scene_audio_analysis_models.AudioGeneration, error) {
	var g scene_audio_analysis_models.AudioGeneration
	if err := bson.Unmarshal(doc, &g); err != nil {
		return nil, fmt.Errorf("解析生成记录失败: %w", err)
	}
	return &g, nil
}
