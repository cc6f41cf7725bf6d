// Package finalize implements the encode finalizer: it waits for the
// persistence worker, runs the external encoder over the written image
// sequence, and removes the session's temp directory.
package finalize

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-shellwords"

	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/ports"
)

// DefaultLogLevel is passed to the encoder's -loglevel option.
const DefaultLogLevel = "error"

// Worker is the persistence worker the finalizer drains.
type Worker interface {
	Stop()
	Written() uint64
	Failed() uint64
}

// Job is one finalize request.
type Job struct {
	pipeline.FinalizeInput
	Worker Worker
}

// Config configures the Stage.
type Config struct {
	EncoderPath string
	LogLevel    string
	Now         func() time.Time
}

// Stage runs the encode finalizer.
type Stage struct {
	fs     ports.FileSystem
	runner ports.ProcessRunner
	probe  ports.ArtifactProbe
	logger ports.Logger
	cfg    Config
}

// New creates a finalize stage. probe may be nil.
func New(fs ports.FileSystem, runner ports.ProcessRunner, probe ports.ArtifactProbe, logger ports.Logger, cfg Config) *Stage {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Stage{
		fs:     fs,
		runner: runner,
		probe:  probe,
		logger: logger.WithComponent("finalize"),
		cfg:    cfg,
	}
}

// Execute drains the worker, encodes, and cleans up. The temp directory is
// removed whatever the outcome.
func (s *Stage) Execute(ctx context.Context, job Job) (result pipeline.FinalizeResult, err error) {
	start := s.cfg.Now()
	in := job.FinalizeInput

	if job.Worker != nil {
		s.logger.Debug("Waiting for persistence worker to drain")
		job.Worker.Stop()
		result.FramesWritten = job.Worker.Written()
		result.WriteFailures = job.Worker.Failed()
	}

	defer func() {
		if rmErr := s.fs.RemoveAll(in.TempDir); rmErr != nil {
			err = multierror.Append(err, fmt.Errorf("%w: %s: %v", ErrCleanup, in.TempDir, rmErr))
		} else {
			s.logger.Debug("Removed temp directory %s", in.TempDir)
		}
		result.Elapsed = s.cfg.Now().Sub(start)
	}()

	encoder := s.cfg.EncoderPath
	if encoder == "" {
		return result, ErrEncoderNotFound
	}
	ok, existsErr := s.fs.Exists(encoder)
	if existsErr != nil {
		return result, fmt.Errorf("%w: %q: %w", ErrEncoderNotFound, encoder, existsErr)
	}
	if !ok {
		return result, fmt.Errorf("%w: %q", ErrEncoderNotFound, encoder)
	}

	frames, err := s.prepareFrames(in.TempDir, in.ImageExt, result.WriteFailures > 0)
	if err != nil {
		return result, err
	}
	if frames == 0 {
		return result, ErrNoFrames
	}
	result.FramesEncoded = frames

	output, err := s.resolveOutput(in)
	if err != nil {
		return result, err
	}
	result.OutputPath = output
	result.Args, err = BuildArgs(s.cfg.LogLevel, in.FrameRate, filepath.Join(in.TempDir, pipeline.FramePattern(in.ImageExt)), in.EncoderParams, output)
	if err != nil {
		return result, err
	}

	s.logger.Debug("Encoding %d frames at %d fps to %s", frames, in.FrameRate, output)
	code, err := s.runner.Run(ctx, encoder, result.Args)
	result.ExitCode = code
	if err != nil {
		return result, err
	}
	if code != 0 {
		return result, fmt.Errorf("%w: exit code %d", ErrEncoderFailed, code)
	}

	if s.probe != nil {
		info, perr := s.probe.Probe(output)
		if perr != nil {
			s.logger.Debug("Could not inspect output %s: %v", output, perr)
		} else {
			result.Artifact = info
		}
	}
	return result, nil
}

// BuildArgs returns the encoder arguments:
//
//	-loglevel <lvl> -framerate <rate> -i <pattern> <params...> -y <output>
//
// params is split like a shell command line, so quoted values stay one
// argument. Environment variables and backticks are not expanded.
func BuildArgs(logLevel string, frameRate int, pattern, params, output string) ([]string, error) {
	extra, err := SplitParams(params)
	if err != nil {
		return nil, err
	}
	args := []string{
		"-loglevel", logLevel,
		"-framerate", strconv.Itoa(frameRate),
		"-i", pattern,
	}
	args = append(args, extra...)
	return append(args, "-y", output), nil
}

// SplitParams splits encoder parameters into arguments. Blank params yield
// the default codec settings.
func SplitParams(params string) ([]string, error) {
	if strings.TrimSpace(params) == "" {
		params = pipeline.DefaultEncoderParams
	}
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false
	args, err := p.Parse(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderParams, err)
	}
	return args, nil
}

// DefaultOutputPath returns <dir>/Capture_<timestamp>.mp4.
func DefaultOutputPath(dir string, now time.Time) string {
	return filepath.Join(dir, "Capture_"+now.Format(pipeline.OutputTimeFormat)+".mp4")
}

func (s *Stage) resolveOutput(in pipeline.FinalizeInput) (string, error) {
	output := in.OutputPath
	if output == "" {
		output = DefaultOutputPath(in.OutputDir, s.cfg.Now())
	}
	if dir := filepath.Dir(output); dir != "" && dir != "." {
		if err := s.fs.MkdirAll(dir); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}
	return output, nil
}

// prepareFrames counts the frame files in dir. When compact is set, files
// are renumbered 1..n so the sequence has no holes left by failed writes.
func (s *Stage) prepareFrames(dir, ext string, compact bool) (int, error) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("list frames: %w", err)
	}

	var frames []frameFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if seq, ok := parseFrameName(e.Name(), ext); ok {
			frames = append(frames, frameFile{name: e.Name(), seq: seq})
		}
	}
	if !compact {
		return len(frames), nil
	}

	// Names widen past 99999, so order by number rather than by name.
	// Sequences are unique and start at 1, so target i+1 is never taken.
	sort.Slice(frames, func(i, j int) bool { return frames[i].seq < frames[j].seq })
	renamed := 0
	for i, f := range frames {
		want := pipeline.FrameFileName(uint64(i+1), ext)
		if f.name == want {
			continue
		}
		if err := s.fs.Rename(filepath.Join(dir, f.name), filepath.Join(dir, want)); err != nil {
			return 0, fmt.Errorf("renumber frames: %w", err)
		}
		renamed++
	}
	if renamed > 0 {
		s.logger.Debug("Renumbered %d frames to close gaps", renamed)
	}
	return len(frames), nil
}

type frameFile struct {
	name string
	seq  uint64
}

// parseFrameName returns the sequence number of "Frame_<digits>.<ext>".
func parseFrameName(name, ext string) (uint64, bool) {
	digits, ok := strings.CutPrefix(name, pipeline.FramePrefix)
	if !ok {
		return 0, false
	}
	if digits, ok = strings.CutSuffix(digits, "."+ext); !ok || digits == "" {
		return 0, false
	}
	seq, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}

var _ pipeline.Stage[Job, pipeline.FinalizeResult] = (*Stage)(nil)
