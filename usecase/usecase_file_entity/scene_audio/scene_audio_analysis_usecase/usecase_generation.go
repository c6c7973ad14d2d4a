package scene_audio_analysis_usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/riddim-exe/riddim/internal/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GenerationConfig struct {
	OutputDir   string
	Steps       int
	Temperature float64
}

type GenerationUsecase struct {
	analyses    scene_audio_analysis_interface.AnalysisRepository
	generations scene_audio_analysis_interface.GenerationRepository
	generator   scene_audio_analysis_interface.SequenceGenerator
	config      GenerationConfig
	timeout     time.Duration
}

func NewGenerationUsecase(
	analyses scene_audio_analysis_interface.AnalysisRepository,
	generations scene_audio_analysis_interface.GenerationRepository,
	generator scene_audio_analysis_interface.SequenceGenerator,
	config GenerationConfig,
	timeout time.Duration,
) *GenerationUsecase {
	if config.Steps <= 0 {
		config.Steps = 128
	}
	if config.Temperature <= 0 {
		config.Temperature = 1.0
	}
	return &GenerationUsecase{
		analyses:    analyses,
		generations: generations,
		generator:   generator,
		config:      config,
		timeout:     timeout,
	}
}

var _ scene_audio_analysis_interface.GenerationUsecase = (*GenerationUsecase)(nil)

// Generate 用占位 primer 调用生成模型，分析特征不参与生成
func (uc *GenerationUsecase) Generate(
	ctx context.Context,
	analysisID string,
	params scene_audio_analysis_models.GenerationParams,
) (*scene_audio_analysis_models.AudioGeneration, error) {
	objID, err := primitive.ObjectIDFromHex(analysisID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", analysisID, domain.ErrInvalidID)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if _, err := uc.analyses.GetByID(ctx, objID); err != nil {
		return nil, err
	}
	if uc.generator == nil || uc.generator.Name() == "" {
		metrics.GenerationRequests.WithLabelValues("not_configured").Inc()
		return nil, domain.ErrGeneratorNotConfigured
	}

	if params.Steps <= 0 {
		params.Steps = uc.config.Steps
	}
	if params.Temperature <= 0 {
		params.Temperature = uc.config.Temperature
	}

	generation := &scene_audio_analysis_models.AudioGeneration{
		AnalysisID:  objID,
		Status:      scene_audio_analysis_models.GenerationPending,
		Primer:      scene_audio_analysis_models.PlaceholderPrimer(),
		Steps:       params.Steps,
		Temperature: params.Temperature,
		Model:       uc.generator.Name(),
	}
	if err := uc.generations.Create(ctx, generation); err != nil {
		return nil, fmt.Errorf("创建生成记录失败: %w", err)
	}

	if err := os.MkdirAll(uc.config.OutputDir, 0o755); err != nil {
		return uc.fail(ctx, generation, fmt.Errorf("创建输出目录失败: %w", err))
	}

	generation.Status = scene_audio_analysis_models.GenerationRunning
	if err := uc.generations.Update(ctx, generation); err != nil {
		return nil, fmt.Errorf("更新生成记录失败: %w", err)
	}

	start := time.Now()
	result, err := uc.generator.Generate(ctx, scene_audio_analysis_models.GenerationRequest{
		Primer:      generation.Primer,
		Steps:       generation.Steps,
		Temperature: generation.Temperature,
		OutputPath:  filepath.Join(uc.config.OutputDir, generation.ID.Hex()+".wav"),
	})
	generation.ElapsedMs = time.Since(start).Milliseconds()
	if err != nil {
		return uc.fail(ctx, generation, err)
	}

	generation.Status = scene_audio_analysis_models.GenerationSucceeded
	generation.OutputPath = result.OutputPath
	if result.Model != "" {
		generation.Model = result.Model
	}
	if err := uc.generations.Update(ctx, generation); err != nil {
		return nil, fmt.Errorf("更新生成记录失败: %w", err)
	}
	metrics.GenerationRequests.WithLabelValues(string(generation.Status)).Inc()
	log.Printf("生成完成[%s]: %s, 用时 %dms", generation.ID.Hex(), generation.Model, generation.ElapsedMs)
	return generation, nil
}

// fail 记录失败状态并返回原始错误
func (uc *GenerationUsecase) fail(
	ctx context.Context,
	generation *scene_audio_analysis_models.AudioGeneration,
	cause error,
) (*scene_audio_analysis_models.AudioGeneration, error) {
	generation.Status = scene_audio_analysis_models.GenerationFailed
	generation.Error = cause.Error()
	metrics.GenerationRequests.WithLabelValues(string(generation.Status)).Inc()
	log.Printf("生成失败[%s]: %v", generation.ID.Hex(), cause)

	// 超时后原 ctx 已失效
	updateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := uc.generations.Update(updateCtx, generation); err != nil {
		log.Printf("更新生成记录失败[%s]: %v", generation.ID.Hex(), err)
	}
	return generation, cause
}

func (uc *GenerationUsecase) GetByID(ctx context.Context, id string) (*scene_audio_analysis_models.AudioGeneration, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrInvalidID)
	}
	return uc.generations.GetByID(ctx, objID)
}

func (uc *GenerationUsecase) ListByAnalysis(
	ctx context.Context,
	analysisID string,
) ([]*scene_audio_analysis_models.AudioGeneration, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(analysisID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", analysisID, domain.ErrInvalidID)
	}
	if _, err := uc.analyses.GetByID(ctx, objID); err != nil {
		return nil, err
	}
	return uc.generations.ListByAnalysis(ctx, objID)
}

func (uc *GenerationUsecase) AudioPath(ctx context.Context, id string) (string, error) {
	generation, err := uc.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !generation.HasAudio() {
		return "", fmt.Errorf("生成 %s 没有音频: %w", id, domain.ErrNotFound)
	}
	if _, err := os.Stat(generation.OutputPath); err != nil {
		return "", fmt.Errorf("%s: %w", generation.OutputPath, domain.ErrNotFound)
	}
	return generation.OutputPath, nil
}
