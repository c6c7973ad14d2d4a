package domain_file_entity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/riddim-exe/riddim/domain"
)

// 支持分析的音频格式
const (
	FormatMP3  = "mp3"
	FormatWAV  = "wav"
	FormatOGG  = "ogg"
	FormatFLAC = "flac"
	FormatM4A  = "m4a"
)

// UploadFormats 上传表单允许的格式
var UploadFormats = []string{FormatMP3, FormatWAV, FormatOGG, FormatFLAC, FormatM4A}

type FileDetector interface {
	DetectAudioFormat(filePath string) (string, error)
}

type FileDetectorImpl struct{}

// DetectAudioFormat 返回分析器可处理的音频格式，否则返回错误
func (fd *FileDetectorImpl) DetectAudioFormat(filePath string) (string, error) {
	head, err := readHead(filePath)
	if err != nil {
		return "", err
	}

	kind, _ := filetype.Match(head)
	switch kind.Extension {
	case "mp3", "wav", "ogg", "flac", "m4a":
		return kind.Extension, nil
	case "mp4":
		if strings.EqualFold(filepath.Ext(filePath), ".m4a") {
			return FormatM4A, nil
		}
	}

	// 无 ID3 头的 MPEG 帧同步字
	if len(head) > 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0 {
		return FormatMP3, nil
	}
	return "", fmt.Errorf("%s: %w", filepath.Base(filePath), domain.ErrUnsupportedFormat)
}

// IsUploadFormat 按扩展名校验上传文件
func IsUploadFormat(fileName string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	for _, f := range UploadFormats {
		if f == ext {
			return true
		}
	}
	return false
}

func readHead(filePath string) ([]byte, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer f.Close()

	// filetype 只需要前 261 字节
	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("读取文件头失败: %w", err)
	}
	return head[:n], nil
}
