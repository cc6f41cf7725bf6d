// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/framerec/pkg/finalize"
	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/recorder"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config represents the full configuration for framerec.
type Config struct {
	// Capture
	CaptureFPS int    `yaml:"capture_fps"`
	Region     string `yaml:"region"`
	QueueSize  int    `yaml:"queue_size"`
	IdleWaitMs int    `yaml:"idle_wait_ms"`
	Executor   string `yaml:"executor"`

	// Storage
	TempDir     string `yaml:"temp_dir"`
	OutputDir   string `yaml:"output_dir"`
	ImageFormat string `yaml:"image_format"`
	JPEGQuality int    `yaml:"jpeg_quality"`

	// Encoding
	FrameRate       int    `yaml:"frame_rate"`
	EncoderPath     string `yaml:"encoder_path"`
	EncoderParams   string `yaml:"encoder_params"`
	EncoderLogLevel string `yaml:"encoder_log_level"`

	// Render loop driven by the CLI
	Source     SourceConfig `yaml:"source"`
	RenderFPS  int          `yaml:"render_fps"`
	DurationMs int          `yaml:"duration_ms"`

	// Ambient
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsAddr string `yaml:"metrics_addr"`
	SummaryPath string `yaml:"summary_path"`
}

// SourceConfig selects the frame source.
type SourceConfig struct {
	Type       string `yaml:"type"` // pattern, screen, chrome
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	URL        string `yaml:"url"`
	ChromePath string `yaml:"chrome_path"`
	Headless   bool   `yaml:"headless"`
}

// Source types.
const (
	SourcePattern = "pattern"
	SourceScreen  = "screen"
	SourceChrome  = "chrome"
)

// Executor kinds for pixel reads.
const (
	ExecutorInline = "inline"
	ExecutorLoop   = "loop"
	ExecutorMain   = "main"
)

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		CaptureFPS: 30,
		QueueSize:  60,
		IdleWaitMs: 1000,
		Executor:   ExecutorLoop,

		TempDir:     filepath.Join("VideoCaptures", "Temp"),
		OutputDir:   "VideoCaptures",
		ImageFormat: "bmp",
		JPEGQuality: 90,

		FrameRate:       30,
		EncoderLogLevel: "error",

		Source: SourceConfig{
			Type:     SourcePattern,
			Width:    1280,
			Height:   720,
			Headless: true,
		},
		RenderFPS:  60,
		DurationMs: 5000,

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.CaptureFPS < 0:
		return fmt.Errorf("%w: capture_fps must not be negative", ErrInvalid)
	case c.FrameRate <= 0:
		return fmt.Errorf("%w: frame_rate must be positive", ErrInvalid)
	case c.QueueSize < 0:
		return fmt.Errorf("%w: queue_size must not be negative", ErrInvalid)
	case c.TempDir == "":
		return fmt.Errorf("%w: temp_dir is required", ErrInvalid)
	case c.RenderFPS <= 0:
		return fmt.Errorf("%w: render_fps must be positive", ErrInvalid)
	}
	switch c.Source.Type {
	case SourcePattern, SourceScreen:
	case SourceChrome:
		if c.Source.URL == "" {
			return fmt.Errorf("%w: source.url is required for chrome", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source type %q", ErrInvalid, c.Source.Type)
	}
	switch c.Executor {
	case ExecutorInline, ExecutorLoop, ExecutorMain:
	default:
		return fmt.Errorf("%w: unknown executor %q", ErrInvalid, c.Executor)
	}
	if c.Region != "" {
		if _, err := pipeline.ParseRegion(c.Region); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	if _, err := finalize.SplitParams(c.EncoderParams); err != nil {
		return fmt.Errorf("%w: encoder_params: %v", ErrInvalid, err)
	}
	return nil
}

// CaptureRegion returns the configured region, or nil for the full frame.
func (c Config) CaptureRegion() *pipeline.Region {
	if c.Region == "" {
		return nil
	}
	r, err := pipeline.ParseRegion(c.Region)
	if err != nil {
		return nil
	}
	return &r
}

// Duration returns the recording length.
func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationMs) * time.Millisecond
}

// ToRecorderConfig converts to recorder.Config. encoderPath is the
// resolved encoder executable.
func (c Config) ToRecorderConfig(encoderPath string) recorder.Config {
	return recorder.Config{
		TempDir:         c.TempDir,
		OutputDir:       c.OutputDir,
		QueueSize:       c.QueueSize,
		IdleWait:        time.Duration(c.IdleWaitMs) * time.Millisecond,
		EncoderPath:     encoderPath,
		EncoderLogLevel: c.EncoderLogLevel,
	}
}

// EncodeRequest builds the stop request for the configured output.
func (c Config) EncodeRequest(outputPath string, onComplete func(bool)) recorder.EncodeRequest {
	return recorder.EncodeRequest{
		OutputPath:    outputPath,
		FrameRate:     c.FrameRate,
		EncoderParams: c.EncoderParams,
		OnComplete:    onComplete,
	}
}
