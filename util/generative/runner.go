package generative

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/riddim-exe/riddim/domain"
)

// Result holds command execution output
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes an external model command with context support
type Runner struct {
	Name string
	Args []string
	Dir  string
}

func NewRunner(name string, args []string, dir string) *Runner {
	return &Runner{Name: name, Args: args, Dir: dir}
}

// Run appends extra to the configured arguments and waits for the process.
func (r *Runner) Run(ctx context.Context, extra ...string) (*Result, error) {
	args := append(append([]string{}, r.Args...), extra...)
	cmd := exec.CommandContext(ctx, r.Name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return result, &domain.ProcessError{Tool: r.Name, ExitCode: -1, Err: domain.ErrToolNotInstalled}
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return result, &domain.ProcessError{
		Tool:     r.Name,
		ExitCode: result.ExitCode,
		Stderr:   lastLines(result.Stderr, 5),
		Err:      err,
	}
}
