package exif

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Executor abstracts command execution so the tool can be faked in tests.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stderr string, err error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

// Option configures the tool.
type Option func(*Tool)

// WithExecutor injects a custom executor, primarily for tests.
func WithExecutor(e Executor) Option {
	return func(t *Tool) {
		if e != nil {
			t.exec = e
		}
	}
}

// Tool invokes the exiftool binary against one media file at a time.
type Tool struct {
	binary string
	exec   Executor
	logger *zap.Logger
}

func NewTool(binary string, logger *zap.Logger, opts ...Option) *Tool {
	t := &Tool{
		binary: binary,
		exec:   commandExecutor{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Apply writes the translated arguments into the media file in place. It
// blocks until exiftool exits and performs no retries; a non-zero exit
// surfaces the captured stderr as the error detail.
func (t *Tool) Apply(ctx context.Context, mediaPath string, args []string) error {
	cmdArgs := make([]string, 0, len(args)+2)
	cmdArgs = append(cmdArgs, "-overwrite_original")
	cmdArgs = append(cmdArgs, args...)
	cmdArgs = append(cmdArgs, mediaPath)

	t.logger.Debug("Invoking exiftool", zap.String("media", mediaPath), zap.Strings("args", cmdArgs))

	stderr, err := t.exec.Run(ctx, t.binary, cmdArgs)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("exiftool: %s", detail)
	}

	return nil
}
