package usercase_audio_util

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jfreymuth/oggvorbis"
	"github.com/mozillazg/go-pinyin"
	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity"
	"github.com/riddim-exe/riddim/util/audio/audio_feature"
	"github.com/riddim-exe/riddim/util/audio/audio_wav"
	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// DecodeFile 解码为单声道并重采样到 targetRate
func DecodeFile(ctx context.Context, path, format string, targetRate int) (audio_feature.Signal, error) {
	var (
		samples    []float64
		sampleRate int
		err        error
	)

	switch format {
	case domain_file_entity.FormatWAV:
		samples, sampleRate, err = decodeWAV(path)
		if errors.Is(err, audio_wav.ErrInvalidWAV) {
			// 非 PCM 编码的 WAV 交给 ffmpeg
			samples, sampleRate, err = decodeWithFFmpeg(ctx, path, targetRate)
		}
	case domain_file_entity.FormatOGG:
		samples, sampleRate, err = decodeOGG(path)
	case domain_file_entity.FormatMP3, domain_file_entity.FormatFLAC, domain_file_entity.FormatM4A:
		samples, sampleRate, err = decodeWithFFmpeg(ctx, path, targetRate)
	default:
		return audio_feature.Signal{}, fmt.Errorf("%s: %w", format, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return audio_feature.Signal{}, err
	}
	if len(samples) == 0 || sampleRate <= 0 {
		return audio_feature.Signal{}, fmt.Errorf("%s: %w", filepath.Base(path), domain.ErrCorruptedFile)
	}

	return audio_feature.Signal{
		Samples:    audio_feature.Resample(samples, sampleRate, targetRate),
		SampleRate: targetRate,
	}, nil
}

func decodeWAV(path string) ([]float64, int, error) {
	pcm, err := audio_wav.DecodeFile(path)
	if err != nil {
		if errors.Is(err, audio_wav.ErrInvalidWAV) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("%v: %w", err, domain.ErrCorruptedFile)
	}
	return audio_feature.MixToMono(pcm.Samples, pcm.Channels), pcm.SampleRate, nil
}

func decodeOGG(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	data, format, err := oggvorbis.ReadAll(file)
	if err != nil {
		return nil, 0, fmt.Errorf("OGG解码失败 %v: %w", err, domain.ErrCorruptedFile)
	}
	interleaved := make([]float64, len(data))
	for i, v := range data {
		interleaved[i] = float64(v)
	}
	return audio_feature.MixToMono(interleaved, format.Channels), format.SampleRate, nil
}

// decodeWithFFmpeg 转码为临时单声道WAV后解码
func decodeWithFFmpeg(ctx context.Context, path string, targetRate int) ([]float64, int, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, 0, fmt.Errorf("ffmpeg: %w", domain.ErrToolNotInstalled)
	}

	tmp, err := os.CreateTemp("", "riddim-*.wav")
	if err != nil {
		return nil, 0, fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	cmd := ffmpeggo.Input(path).
		Output(tmpPath, ffmpeggo.KwArgs{
			"ac":     1,          // 单声道
			"ar":     targetRate, // 采样率
			"f":      "wav",
			"acodec": "pcm_s16le",
		}).
		OverWriteOutput().
		Compile()

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	log.Printf("执行FFmpeg解码命令: %s", strings.Join(cmd.Args, " "))

	if err := cmd.Start(); err != nil {
		return nil, 0, toolError("ffmpeg", err, "")
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", toolError("ffmpeg", err, lastLine(stderr.String())), domain.ErrCorruptedFile)
		}
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return nil, 0, fmt.Errorf("转码超时: %w", ctx.Err())
	}

	return decodeWAV(tmpPath)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}

// Checksum 文件内容的 SHA-256
func Checksum(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	hash := sha256.New()
	n, err := io.Copy(hash, file)
	if err != nil {
		return "", 0, fmt.Errorf("校验和计算失败: %w", err)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), n, nil
}

// SortKey 生成拼音排序键，非中文字符保持原样
func SortKey(name string) (string, []string) {
	py := pinyin.LazyConvert(name, nil)
	lower := strings.ToLower(name)
	if len(py) == 0 {
		return lower, nil
	}

	var b strings.Builder
	hanIndex := 0
	for _, r := range lower {
		if isHan(r) && hanIndex < len(py) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(py[hanIndex])
			hanIndex++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), py
}

func isHan(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF || r >= 0x3400 && r <= 0x4DBF
}
