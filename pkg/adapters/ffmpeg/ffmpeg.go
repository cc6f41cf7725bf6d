// Package ffmpeg locates and runs the external ffmpeg encoder.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/user/framerec/pkg/ports"
)

// IsAvailable checks if ffmpeg can be found without a custom path.
func IsAvailable() bool {
	_, err := Find("")
	return err == nil
}

// Find searches for ffmpeg.
// Priority: 1) customPath, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func Find(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, customPath)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	for _, p := range commonPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

func commonPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		return []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
}

// Runner implements ports.ProcessRunner with os/exec.
// The child's stderr is captured and logged when it exits non-zero.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a process runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger.WithComponent("ffmpeg")}
}

// Run starts path with args and waits for it to exit.
func (r *Runner) Run(ctx context.Context, path string, args []string) (int, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	r.logger.Debug("Running %s %s", path, strings.Join(args, " "))
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			r.logger.Debug("ffmpeg stderr: %s", msg)
		}
		return code, nil
	}
	return -1, fmt.Errorf("%w: %v", ErrStart, err)
}

var _ ports.ProcessRunner = (*Runner)(nil)
