package scene_audio_analysis_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type analysisSQLiteRepository struct {
	db *sql.DB
}

func NewAnalysisSQLiteRepository(db *sql.DB) scene_audio_analysis_interface.AnalysisRepository {
	return &analysisSQLiteRepository{db: db}
}

func (r *analysisSQLiteRepository) Upsert(ctx context.Context, a *scene_audio_analysis_models.AudioAnalysis) error {
	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	doc, err := bson.Marshal(a)
	if err != nil {
		return fmt.Errorf("序列化分析结果失败: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
        INSERT INTO analyses
            (id, checksum, analyzer_version, name, sort_name, title, artist, album,
             tempo, duration, created_at, updated_at, doc)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET
            checksum = excluded.checksum,
            analyzer_version = excluded.analyzer_version,
            name = excluded.name,
            sort_name = excluded.sort_name,
            title = excluded.title,
            artist = excluded.artist,
            album = excluded.album,
            tempo = excluded.tempo,
            duration = excluded.duration,
            updated_at = excluded.updated_at,
            doc = excluded.doc
        ON CONFLICT (checksum, analyzer_version) DO NOTHING`,
		a.ID.Hex(), a.Checksum, a.AnalyzerVersion, a.Name, a.SortName, a.Title, a.Artist, a.Album,
		a.Tempo, a.Duration, a.CreatedAt.UnixNano(), a.UpdatedAt.UnixNano(), doc,
	)
	if err != nil {
		return fmt.Errorf("保存分析结果失败: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	// 同一校验和已有记录，保留先写入的那条
	existing, err := r.GetByChecksum(ctx, a.Checksum, a.AnalyzerVersion)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("保存分析结果失败: %s: %w", a.Checksum, domain.ErrNotFound)
	}
	*a = *existing
	return nil
}

func (r *analysisSQLiteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*scene_audio_analysis_models.AudioAnalysis, error) {
	a, err := r.getOne(ctx, `SELECT doc FROM analyses WHERE id = ?`, id.Hex())
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
	}
	return a, nil
}

func (r *analysisSQLiteRepository) GetByChecksum(
	ctx context.Context,
	checksum, analyzerVersion string,
) (*scene_audio_analysis_models.AudioAnalysis, error) {
	return r.getOne(ctx,
		`SELECT doc FROM analyses WHERE checksum = ? AND analyzer_version = ?`,
		checksum, analyzerVersion,
	)
}

func (r *analysisSQLiteRepository) List(
	ctx context.Context,
	query scene_audio_analysis_models.AnalysisQuery,
) ([]*scene_audio_analysis_models.AudioAnalysis, int64, error) {
	query.Normalize()

	var where string
	var args []interface{}
	if variants := searchVariants(query.Search); len(variants) > 0 {
		var conds []string
		for _, v := range variants {
			for _, field := range searchableFields {
				conds = append(conds, field+` LIKE ? ESCAPE '\'`)
				args = append(args, "%"+escapeLike(v)+"%")
			}
		}
		where = " WHERE " + strings.Join(conds, " OR ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计分析历史失败: %w", err)
	}

	dir := "ASC"
	if query.IsDesc() {
		dir = "DESC"
	}
	// 排序字段已经过 Normalize 白名单校验
	stmt := fmt.Sprintf("SELECT doc FROM analyses%s ORDER BY %s %s, id %s LIMIT ? OFFSET ?",
		where, query.SortField(), dir, dir)
	rows, err := r.db.QueryContext(ctx, stmt, append(args, query.PageSize, query.Skip())...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询分析历史失败: %w", err)
	}
	defer rows.Close()

	var items []*scene_audio_analysis_models.AudioAnalysis
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, err
		}
		a, err := decodeAnalysis(doc)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *analysisSQLiteRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("删除分析结果失败: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", id.Hex(), domain.ErrNotFound)
	}
	return nil
}

// getOne 查询不到时返回 nil, nil
func (r *analysisSQLiteRepository) getOne(ctx context.Context, query string, args ...interface{}) (*scene_audio_analysis_models.AudioAnalysis, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询分析结果失败: %w", err)
	}
	return decodeAnalysis(doc)
}

func decodeAnalysis(doc []byte) (*scene_audio_analysis_models.AudioAnalysis, error) {
	var a scene_audio_analysis_models.AudioAnalysis
	if err := bson.Unmarshal(doc, &a); err != nil {
		return nil, fmt.Errorf("解析分析结果失败: %w", err)
	}
	return &a, nil
}
