// Package recorder is the public entry point: it starts a recording session,
// accepts captures from the render loop, and stops and encodes in the
// background.
package recorder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/framerec/pkg/dispatch"
	"github.com/user/framerec/pkg/finalize"
	"github.com/user/framerec/pkg/framequeue"
	"github.com/user/framerec/pkg/persist"
	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/ports"
	"github.com/user/framerec/pkg/session"
)

// Config holds recorder settings.
type Config struct {
	// TempDir receives the frame files of the current session.
	// It is deleted and recreated at every start.
	TempDir string
	// OutputDir is used for auto-generated output names.
	OutputDir string
	// QueueSize is the frame queue capacity. Zero uses the default of 60.
	QueueSize int
	// IdleWait bounds the persistence worker's sleep on an empty queue.
	IdleWait time.Duration
	// EncoderPath is the external encoder executable.
	EncoderPath string
	// EncoderLogLevel is passed as -loglevel. Empty uses "error".
	EncoderLogLevel string
}

// Deps are the collaborators the recorder is built from.
type Deps struct {
	FileSystem ports.FileSystem
	Images     ports.ImageEncoder
	Runner     ports.ProcessRunner
	Logger     ports.Logger

	// Source is captured by Capture. Optional when only CaptureFrom is used.
	Source ports.FrameSource
	// Reads runs pixel reads. nil reads inline on the capturing goroutine.
	Reads ports.Executor
	// Notify delivers completion. nil delivers on the finalizer goroutine.
	Notify ports.Executor
	// Probe inspects the encoded file. Optional.
	Probe ports.ArtifactProbe
	// Lock guards TempDir against other processes. Optional.
	Lock ports.DirLock
	// Now defaults to time.Now.
	Now func() time.Time
}

// EncodeRequest describes how a stopped session is encoded.
type EncodeRequest struct {
	// OutputPath of the video. Empty auto-generates a timestamped name in OutputDir.
	OutputPath string
	// FrameRate of the encoded video.
	FrameRate int
	// EncoderParams are extra encoder arguments. Empty uses the default codec settings.
	EncoderParams string
	// OnComplete, if set, receives the outcome on the notification executor.
	OnComplete func(ok bool)
}

// Result is the outcome of StopAndEncode.
type Result struct {
	SessionID string
	pipeline.FinalizeResult
	Err error
}

// OK reports whether the encode succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Recorder owns the session controller and wires capture, persistence and
// finalize together.
type Recorder struct {
	cfg        Config
	deps       Deps
	logger     ports.Logger
	ctrl       *session.Controller
	dispatcher *dispatch.Dispatcher
	finalizer  pipeline.Stage[finalize.Job, pipeline.FinalizeResult]

	sessionsStarted   atomic.Uint64
	sessionsSucceeded atomic.Uint64
	sessionsFailed    atomic.Uint64

	// statsMu guards the frame totals and live, the session whose writer
	// counts are not yet folded into them.
	statsMu       sync.Mutex
	live          *session.Session
	framesWritten uint64
	writeFailures uint64
}

// New creates a recorder in Idle.
func New(cfg Config, deps Deps) *Recorder {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	ctrl := session.NewController()
	r := &Recorder{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger,
		ctrl:   ctrl,
		dispatcher: dispatch.New(ctrl, deps.Logger, dispatch.Config{
			Source: deps.Source,
			Reads:  deps.Reads,
			Now:    deps.Now,
		}),
		finalizer: finalize.New(deps.FileSystem, deps.Runner, deps.Probe, deps.Logger, finalize.Config{
			EncoderPath: cfg.EncoderPath,
			LogLevel:    cfg.EncoderLogLevel,
			Now:         deps.Now,
		}),
	}
	return r
}

// Start begins a session capturing at most captureFPS frames per second
// (0 is unlimited). It returns false if a session is already active or
// setup fails; a failed setup leaves the recorder Idle.
func (r *Recorder) Start(captureFPS int) bool {
	return r.StartSession(captureFPS) == nil
}

// StartSession is Start with the failure reason.
func (r *Recorder) StartSession(captureFPS int) error {
	if captureFPS < 0 {
		r.logger.Warn("Cannot start recording: %v", ErrInvalidFPS)
		return ErrInvalidFPS
	}
	if !r.ctrl.TryBegin() {
		r.logger.Warn("Cannot start recording: %v", ErrBusy)
		return ErrBusy
	}

	s, err := r.setup(captureFPS)
	if err != nil {
		r.ctrl.Abort()
		r.logger.Error("Failed to start recording: %v", err)
		return err
	}
	if !r.ctrl.Activate(s) {
		s.Writer.Stop()
		r.teardown()
		r.ctrl.Abort()
		return ErrBusy
	}

	r.statsMu.Lock()
	r.live = s
	r.statsMu.Unlock()

	r.sessionsStarted.Add(1)
	r.logger.Info("Recording started: session %s at %d fps", s.ID, captureFPS)
	return nil
}

func (r *Recorder) setup(fps int) (*session.Session, error) {
	if r.deps.Lock != nil {
		ok, err := r.deps.Lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("lock temp directory: %w", err)
		}
		if !ok {
			return nil, ErrLocked
		}
	}

	dir := r.cfg.TempDir
	if err := r.deps.FileSystem.RemoveAll(dir); err != nil {
		r.unlock()
		return nil, fmt.Errorf("remove stale temp directory: %w", err)
	}
	if err := r.deps.FileSystem.MkdirAll(dir); err != nil {
		r.unlock()
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	q := framequeue.New(r.cfg.QueueSize)
	w := persist.New(q, r.deps.FileSystem, r.deps.Images, r.logger, persist.Config{
		Dir:      dir,
		IdleWait: r.cfg.IdleWait,
	})
	w.Start()

	return session.New(dir, r.deps.Images.Extension(), fps, q, w, r.deps.Now()), nil
}

func (r *Recorder) teardown() {
	r.deps.FileSystem.RemoveAll(r.cfg.TempDir)
	r.unlock()
}

func (r *Recorder) unlock() {
	if r.deps.Lock != nil {
		if err := r.deps.Lock.Unlock(); err != nil {
			r.logger.Warn("Failed to release temp directory lock: %v", err)
		}
	}
}

// Capture samples the configured source. region nil (or zero sized) is the
// full frame. It never blocks and silently drops frames it cannot accept.
func (r *Recorder) Capture(region *pipeline.Region) {
	r.dispatcher.Capture(region)
}

// CaptureFrom samples src instead of the configured source.
func (r *Recorder) CaptureFrom(src ports.FrameSource, region *pipeline.Region) {
	r.dispatcher.CaptureFrom(src, region)
}

// StopAndEncode stops accepting captures and encodes the session in the
// background. The returned channel receives exactly one Result.
//
// With no active session, OnComplete(false) is called before returning and
// the channel already holds a failed Result.
func (r *Recorder) StopAndEncode(req EncodeRequest) <-chan Result {
	done := make(chan Result, 1)

	s, ok := r.ctrl.Detach()
	if !ok {
		r.logger.Warn("Stop requested but no recording session is active")
		if req.OnComplete != nil {
			req.OnComplete(false)
		}
		done <- Result{Err: ErrNotRecording}
		return done
	}
	r.logger.Info("Recording stopped: session %s, %d frames captured", s.ID, s.Sequences())

	go r.finish(s, req, done)
	return done
}

func (r *Recorder) finish(s *session.Session, req EncodeRequest, done chan<- Result) {
	res := r.encode(s, req)

	// release before notifying so the callback sees an idle recorder
	r.ctrl.Release()

	deliver := func() {
		if req.OnComplete != nil {
			req.OnComplete(res.OK())
		}
		done <- res
	}
	if r.deps.Notify == nil || !r.deps.Notify.Submit(deliver) {
		deliver()
	}
}

func (r *Recorder) encode(s *session.Session, req EncodeRequest) Result {
	defer r.unlock()

	out, err := r.finalizer.Execute(context.Background(), finalize.Job{
		FinalizeInput: pipeline.FinalizeInput{
			SessionID:     s.ID,
			TempDir:       s.TempDir,
			ImageExt:      s.ImageExt,
			OutputPath:    req.OutputPath,
			OutputDir:     r.cfg.OutputDir,
			FrameRate:     req.FrameRate,
			EncoderParams: req.EncoderParams,
		},
		Worker: s.Writer,
	})
	r.statsMu.Lock()
	r.framesWritten += out.FramesWritten
	r.writeFailures += out.WriteFailures
	r.live = nil
	r.statsMu.Unlock()

	res := Result{SessionID: s.ID, FinalizeResult: out, Err: err}
	if err != nil {
		r.sessionsFailed.Add(1)
		r.logger.Error("Encode failed for session %s: %v", s.ID, err)
		return res
	}
	r.sessionsSucceeded.Add(1)
	r.logger.Info("Encoded %d frames to %s in %s", out.FramesEncoded, out.OutputPath, out.Elapsed.Round(time.Millisecond))
	return res
}

// IsRecording reports whether captures are being accepted.
func (r *Recorder) IsRecording() bool {
	return r.ctrl.IsRecording()
}

// IsBusy reports whether a session is starting, recording or finalizing.
func (r *Recorder) IsBusy() bool {
	return r.ctrl.IsBusy()
}

// State returns the current lifecycle state.
func (r *Recorder) State() session.State {
	return r.ctrl.State()
}

// SessionID returns the id of the current session, or "".
func (r *Recorder) SessionID() string {
	if s := r.ctrl.Current(); s != nil {
		return s.ID
	}
	return ""
}
