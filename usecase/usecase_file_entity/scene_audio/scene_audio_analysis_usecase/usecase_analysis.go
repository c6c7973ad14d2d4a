package scene_audio_analysis_usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_interface"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/riddim-exe/riddim/internal/metrics"
	usercase_audio_util "github.com/riddim-exe/riddim/usecase/usecase_file_entity/scene_audio/scene_audio_util"
	"github.com/riddim-exe/riddim/util/audio/audio_feature"
	"github.com/riddim-exe/riddim/util/audio/audio_plot"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"
)

// AnalyzerVersion 特征算法版本，参与缓存键
const AnalyzerVersion = "features-1"

type AnalysisConfig struct {
	DefaultAudioPath string
	UploadDir        string
	MaxUploadBytes   int64
	SampleRate       int
}

type AnalysisUsecase struct {
	repo     scene_audio_analysis_interface.AnalysisRepository
	detector domain_file_entity.FileDetector
	config   AnalysisConfig
	timeout  time.Duration
	inflight singleflight.Group
}

func NewAnalysisUsecase(
	repo scene_audio_analysis_interface.AnalysisRepository,
	config AnalysisConfig,
	timeout time.Duration,
) *AnalysisUsecase {
	if config.SampleRate <= 0 {
		config.SampleRate = audio_feature.DefaultSampleRate
	}
	return &AnalysisUsecase{
		repo:     repo,
		detector: &domain_file_entity.FileDetectorImpl{},
		config:   config,
		timeout:  timeout,
	}
}

var _ scene_audio_analysis_interface.AnalysisUsecase = (*AnalysisUsecase)(nil)

func (uc *AnalysisUsecase) DefaultFile() (string, string, error) {
	path := uc.config.DefaultAudioPath
	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return name, path, fmt.Errorf("%s: %w", path, domain.ErrDefaultFileNotFound)
	}
	return name, path, nil
}

func (uc *AnalysisUsecase) AnalyzeDefault(ctx context.Context) (*scene_audio_analysis_models.AudioAnalysis, error) {
	name, path, err := uc.DefaultFile()
	if err != nil {
		return nil, err
	}
	return uc.AnalyzePath(ctx, path, name, scene_audio_analysis_models.SourceDefault)
}

var unsafeNameChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// AnalyzeUpload 保存上传文件后分析
func (uc *AnalysisUsecase) AnalyzeUpload(
	ctx context.Context,
	fileName string,
	r io.Reader,
) (*scene_audio_analysis_models.AudioAnalysis, error) {
	fileName = filepath.Base(fileName)
	if !domain_file_entity.IsUploadFormat(fileName) {
		metrics.AnalysisRequests.WithLabelValues("error", "unknown").Inc()
		return nil, fmt.Errorf("%s: %w", fileName, domain.ErrUnsupportedFormat)
	}

	if err := os.MkdirAll(uc.config.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	f, err := os.CreateTemp(uc.config.UploadDir, "*-"+unsafeNameChars.ReplaceAllString(fileName, "_"))
	if err != nil {
		return nil, fmt.Errorf("保存上传文件失败: %w", err)
	}
	stored := f.Name()
	err = uc.saveUpload(f, r)
	f.Close()
	if err != nil {
		os.Remove(stored)
		return nil, err
	}

	analysis, err := uc.AnalyzePath(ctx, stored, fileName, scene_audio_analysis_models.SourceUpload)
	if err != nil || analysis.Cached {
		// 命中缓存时沿用已保存的文件
		os.Remove(stored)
	}
	return analysis, err
}

func (uc *AnalysisUsecase) saveUpload(f *os.File, r io.Reader) error {
	reader := r
	if uc.config.MaxUploadBytes > 0 {
		reader = io.LimitReader(r, uc.config.MaxUploadBytes+1)
	}
	n, err := io.Copy(f, reader)
	if err != nil {
		return fmt.Errorf("保存上传文件失败: %w", err)
	}
	if uc.config.MaxUploadBytes > 0 && n > uc.config.MaxUploadBytes {
		return fmt.Errorf("超过 %d 字节: %w", uc.config.MaxUploadBytes, domain.ErrFileTooLarge)
	}
	if n == 0 {
		return fmt.Errorf("空文件: %w", domain.ErrCorruptedFile)
	}
	return nil
}

// AnalyzePath 按校验和查缓存，未命中时解码并提取特征
func (uc *AnalysisUsecase) AnalyzePath(
	ctx context.Context,
	path, displayName, source string,
) (*scene_audio_analysis_models.AudioAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	format, err := uc.detector.DetectAudioFormat(path)
	if err != nil {
		metrics.AnalysisRequests.WithLabelValues("error", "unknown").Inc()
		return nil, err
	}

	checksum, size, err := usercase_audio_util.Checksum(path)
	if err != nil {
		return nil, err
	}

	// 相同内容的并发请求只分析一次
	v, err, _ := uc.inflight.Do(checksum+"@"+AnalyzerVersion, func() (interface{}, error) {
		cached, err := uc.repo.GetByChecksum(ctx, checksum, AnalyzerVersion)
		if err != nil {
			log.Printf("缓存查询失败[%s]: %v", displayName, err)
		}
		if cached != nil {
			return flightResult{analysis: cached}, nil
		}
		analysis, err := uc.analyze(ctx, path, displayName, source, format, checksum, size)
		if err != nil {
			return nil, err
		}
		return flightResult{analysis: analysis, fresh: true}, nil
	})
	if err != nil {
		metrics.AnalysisRequests.WithLabelValues("error", format).Inc()
		return nil, err
	}

	// 每个调用方拿到独立副本，显示名与来源取本次请求
	res := v.(flightResult)
	analysis := *res.analysis
	// 并发请求共享的结果对其他文件而言也是缓存命中；Upsert 回填的已有记录同理
	analysis.Cached = !res.fresh || res.analysis.FilePath != path
	analysis.Name = displayName
	analysis.Source = source
	if analysis.Cached {
		metrics.AnalysisRequests.WithLabelValues("cached", format).Inc()
	} else {
		metrics.AnalysisRequests.WithLabelValues("success", format).Inc()
	}
	return &analysis, nil
}

type flightResult struct {
	analysis *scene_audio_analysis_models.AudioAnalysis
	fresh    bool
}

func (uc *AnalysisUsecase) analyze(
	ctx context.Context,
	path, displayName, source, format, checksum string,
	size int64,
) (*scene_audio_analysis_models.AudioAnalysis, error) {
	start := time.Now()
	sig, err := usercase_audio_util.DecodeFile(ctx, path, format, uc.config.SampleRate)
	if err != nil {
		return nil, err
	}

	opts := audio_feature.DefaultOptions()
	opts.SampleRate = uc.config.SampleRate
	result, err := audio_feature.Extract(sig, opts)
	if err != nil {
		if errors.Is(err, audio_feature.ErrEmptySignal) {
			return nil, fmt.Errorf("%s: %w", displayName, domain.ErrCorruptedFile)
		}
		return nil, fmt.Errorf("特征提取失败: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("分析超时: %w", err)
	}

	info := usercase_audio_util.ReadAudioInfo(ctx, path, format)
	sortName, namePinyin := usercase_audio_util.SortKey(displayName)

	features := make([]scene_audio_analysis_models.FeatureValue, len(result.Features))
	for i, f := range result.Features {
		features[i] = scene_audio_analysis_models.FeatureValue{Name: f.Name, Value: f.Value}
	}

	analysis := &scene_audio_analysis_models.AudioAnalysis{
		Name:             displayName,
		NamePinyin:       namePinyin,
		SortName:         sortName,
		Source:           source,
		FilePath:         path,
		Format:           format,
		Size:             size,
		Checksum:         checksum,
		Title:            info.Title,
		Artist:           info.Artist,
		Album:            info.Album,
		Genre:            info.Genre,
		SourceSampleRate: info.SampleRate,
		Channels:         info.Channels,
		BitRate:          info.BitRate,
		AnalyzerVersion:  AnalyzerVersion,
		SampleRate:       result.SampleRate,
		Duration:         result.Duration,
		Tempo:            result.Tempo,
		Features:         features,
		BeatTimes:        result.BeatTimes,
		Envelope:         result.Envelope,
	}

	if err := uc.repo.Upsert(ctx, analysis); err != nil {
		return nil, fmt.Errorf("保存分析结果失败: %w", err)
	}

	metrics.AnalysisDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
	metrics.AudioDuration.WithLabelValues(format).Observe(result.Duration)
	log.Printf("分析完成[%s]: %.2fs, %.2f BPM, 用时 %v", displayName, result.Duration, result.Tempo, time.Since(start))
	return analysis, nil
}

func (uc *AnalysisUsecase) GetByID(ctx context.Context, id string) (*scene_audio_analysis_models.AudioAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrInvalidID)
	}
	return uc.repo.GetByID(ctx, objID)
}

func (uc *AnalysisUsecase) List(
	ctx context.Context,
	query scene_audio_analysis_models.AnalysisQuery,
) ([]*scene_audio_analysis_models.AudioAnalysis, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	query.Normalize()
	return uc.repo.List(ctx, query)
}

// Delete 删除记录，上传来源的文件一并删除
func (uc *AnalysisUsecase) Delete(ctx context.Context, id string) error {
	analysis, err := uc.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	if err := uc.repo.Delete(ctx, analysis.ID); err != nil {
		return err
	}
	if analysis.Source == scene_audio_analysis_models.SourceUpload && analysis.FilePath != "" {
		if err := os.Remove(analysis.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("上传文件删除失败[%s]: %v", analysis.FilePath, err)
		}
	}
	return nil
}

func (uc *AnalysisUsecase) RenderWaveform(ctx context.Context, id string, w io.Writer) error {
	analysis, err := uc.GetByID(ctx, id)
	if err != nil {
		return err
	}

	opts := audio_plot.DefaultWaveformOptions()
	opts.Title = analysis.DisplayName()
	return audio_plot.RenderWaveformPNG(w, analysis.Envelope, analysis.Duration, analysis.BeatTimes, opts)
}
