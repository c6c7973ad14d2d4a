// Package generative wraps an external generative sequence model.
//
// The model is any command that accepts
//
//	--primer <note sequence json> --steps N --temperature T --output <wav>
//
// and writes the rendered audio to the output path. A single JSON object on
// stdout (for example {"model": "melody_rnn", "output": "..."}) is optional.
package generative

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/riddim-exe/riddim/domain"
	"github.com/riddim-exe/riddim/domain/domain_file_entity/scene_audio/scene_audio_analysis/scene_audio_analysis_models"
	"github.com/tidwall/gjson"
)

type SequenceModelGenerator struct {
	runner *Runner
}

// NewSequenceModelGenerator splits command on whitespace; an empty command yields a
// generator that always returns ErrGeneratorNotConfigured.
func NewSequenceModelGenerator(command, workDir string) *SequenceModelGenerator {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return &SequenceModelGenerator{}
	}
	return &SequenceModelGenerator{runner: NewRunner(fields[0], fields[1:], workDir)}
}

func (g *SequenceModelGenerator) Name() string {
	if g.runner == nil {
		return ""
	}
	return g.runner.Name
}

func (g *SequenceModelGenerator) Generate(
	ctx context.Context,
	req scene_audio_analysis_models.GenerationRequest,
) (*scene_audio_analysis_models.GenerationResult, error) {
	if g.runner == nil {
		return nil, domain.ErrGeneratorNotConfigured
	}

	primer, err := json.Marshal(req.Primer)
	if err != nil {
		return nil, fmt.Errorf("序列化primer失败: %w", err)
	}

	res, err := g.runner.Run(ctx,
		"--primer", string(primer),
		"--steps", strconv.Itoa(req.Steps),
		"--temperature", strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		"--output", req.OutputPath,
	)
	if err != nil {
		return nil, err
	}

	result := &scene_audio_analysis_models.GenerationResult{
		OutputPath: req.OutputPath,
		Model:      g.Name(),
		Duration:   res.Duration,
		Stdout:     res.Stdout,
	}
	if summary := lastJSONLine(res.Stdout); summary != "" {
		if model := gjson.Get(summary, "model").String(); model != "" {
			result.Model = model
		}
		if output := gjson.Get(summary, "output").String(); output != "" {
			result.OutputPath = output
		}
	}

	if info, err := os.Stat(result.OutputPath); err != nil || info.Size() == 0 {
		return nil, &domain.ProcessError{
			Tool:     g.Name(),
			ExitCode: res.ExitCode,
			Stderr:   "输出文件无效: " + result.OutputPath,
			Err:      domain.ErrCorruptedFile,
		}
	}
	return result, nil
}

// lastJSONLine 模型可能在 stdout 打印进度，只取最后一个 JSON 对象
func lastJSONLine(stdout string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "{") && gjson.Valid(line) {
			return line
		}
	}
	return ""
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
