package usercase_audio_util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/riddim-exe/riddim/domain"
	"github.com/tidwall/gjson"
	ffmpeggo "github.com/u2takey/ffmpeg-go"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

var probeSem = make(chan struct{}, 5) // 全局信号量控制 ffprobe 并发

// ProbeInfo ffprobe 输出中分析需要的字段
type ProbeInfo struct {
	Duration   float64
	SampleRate int
	Channels   int
	BitRate    int
	CodecName  string
	Tags       map[string]string
}

// ProbeMedia 调用 ffprobe 读取元数据，标签统一转为UTF-8
func ProbeMedia(ctx context.Context, filePath string) (*ProbeInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, fmt.Errorf("ffprobe: %w", domain.ErrToolNotInstalled)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// 获取信号量（控制并发）
	select {
	case probeSem <- struct{}{}:
		defer func() { <-probeSem }()
	case <-ctx.Done():
		return nil, fmt.Errorf("等待资源超时: %w", ctx.Err())
	}

	data, err := ffmpeggo.Probe(filePath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe执行失败: %w", err)
	}

	converted, err := convertMetadataEncoding(data)
	if err != nil {
		log.Printf("编码转换失败，使用原始数据: %v", err)
		converted = data
	}
	return parseProbe(converted), nil
}

func parseProbe(metadataJson string) *ProbeInfo {
	info := &ProbeInfo{
		Duration: gjson.Get(metadataJson, "format.duration").Float(),
		Tags:     make(map[string]string),
	}
	for key, value := range gjson.Get(metadataJson, "format.tags").Map() {
		if s := value.String(); s != "" {
			info.Tags[key] = s
		}
	}

	// 查找音频流（跳过封面图流）
	for _, stream := range gjson.Get(metadataJson, "streams").Array() {
		if stream.Get("codec_type").String() != "audio" {
			continue
		}
		info.CodecName = stream.Get("codec_name").String()
		info.Channels = int(stream.Get("channels").Int())
		if sr, err := strconv.Atoi(stream.Get("sample_rate").String()); err == nil {
			info.SampleRate = sr
		}
		break
	}

	if br, err := strconv.Atoi(gjson.Get(metadataJson, "format.bit_rate").String()); err == nil {
		info.BitRate = br
	}
	return info
}

// 转换元数据中的编码格式为UTF-8
func convertMetadataEncoding(data string) (string, error) {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return data, fmt.Errorf("JSON解析失败: %w", err)
	}

	convertTags := func(holder map[string]interface{}) {
		tags, ok := holder["tags"].(map[string]interface{})
		if !ok {
			return
		}
		for key, value := range tags {
			if strVal, ok := value.(string); ok {
				tags[key] = convertToUTF8(strVal)
			}
		}
	}

	if format, ok := result["format"].(map[string]interface{}); ok {
		convertTags(format)
	}
	if streams, ok := result["streams"].([]interface{}); ok {
		for _, stream := range streams {
			if streamMap, ok := stream.(map[string]interface{}); ok {
				convertTags(streamMap)
			}
		}
	}

	converted, err := json.Marshal(result)
	if err != nil {
		return data, fmt.Errorf("JSON序列化失败: %w", err)
	}
	return string(converted), nil
}

// convertToUTF8 依次尝试 GBK 与 GB18030
func convertToUTF8(input string) string {
	if utf8.ValidString(input) {
		return input
	}

	for _, enc := range []transform.Transformer{
		simplifiedchinese.GBK.NewDecoder(),
		simplifiedchinese.GB18030.NewDecoder(),
	} {
		output, _, err := transform.String(enc, input)
		if err == nil && utf8.ValidString(output) {
			return output
		}
	}
	return input
}

// toolError 将进程错误映射为领域错误
func toolError(tool string, err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: %w", tool, domain.ErrToolNotInstalled)
	}
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &domain.ProcessError{Tool: tool, ExitCode: code, Stderr: stderr, Err: err}
}
