package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("记录不存在")
	ErrInvalidID              = errors.New("无效的ID")
	ErrDefaultFileNotFound    = errors.New("默认音频文件不存在")
	ErrUnsupportedFormat      = errors.New("不支持的音频格式")
	ErrFileTooLarge           = errors.New("文件过大")
	ErrCorruptedFile          = errors.New("音频文件损坏或无法解码")
	ErrToolNotInstalled       = errors.New("缺少外部工具")
	ErrGeneratorNotConfigured = errors.New("生成模型未配置")
)

// ProcessError 外部进程执行失败
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s 执行失败 (exit %d): %s", e.Tool, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s 执行失败 (exit %d): %v", e.Tool, e.ExitCode, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
