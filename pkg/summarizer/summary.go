// Package summarizer provides summary generation for recording sessions.
package summarizer

import (
	"time"

	"github.com/user/framerec/pkg/dispatch"
	"github.com/user/framerec/pkg/recorder"
)

// Summary contains all data collected during a recording session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Session outcome
	Session SessionInfo

	// Capture counters
	Capture CaptureInfo

	// Recording settings
	Settings Settings

	// Video output details
	Video VideoInfo
}

// SessionInfo identifies the session and its outcome.
type SessionInfo struct {
	ID         string
	StartedAt  time.Time
	DurationMs int
	Success    bool
	Error      string
}

// CaptureInfo contains capture request outcomes.
type CaptureInfo struct {
	Accepted     uint64
	QueueFull    uint64
	RateLimited  uint64
	OutOfBounds  uint64
	ReadFailed   uint64
	ExecutorBusy uint64
	Stopped      uint64
}

// Dropped returns the number of capture requests that did not produce a frame.
func (c CaptureInfo) Dropped() uint64 {
	return c.QueueFull + c.RateLimited + c.OutOfBounds + c.ReadFailed + c.ExecutorBusy + c.Stopped
}

// Settings contains the recording configuration.
type Settings struct {
	Source        string
	SourceWidth   int
	SourceHeight  int
	CaptureFPS    int // 0 = unlimited
	ImageFormat   string
	FrameRate     int
	EncoderParams string
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Path          string
	FramesWritten uint64
	WriteFailures uint64
	FramesEncoded int
	Codec         string
	Width         int
	Height        int
	DurationMs    int
	FileSize      int64
	EncodeMs      int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSession sets the session id and wall-clock span.
func (b *Builder) WithSession(id string, startedAt time.Time, duration time.Duration) *Builder {
	b.summary.Session.ID = id
	b.summary.Session.StartedAt = startedAt
	b.summary.Session.DurationMs = int(duration.Milliseconds())
	return b
}

// WithCounters copies capture outcomes from dispatcher counters.
// NotRecording is left out since it covers calls made between sessions.
func (b *Builder) WithCounters(c dispatch.Counters) *Builder {
	b.summary.Capture = CaptureInfo{
		Accepted:     c.Accepted,
		QueueFull:    c.QueueFull,
		RateLimited:  c.RateLimited,
		OutOfBounds:  c.OutOfBounds,
		ReadFailed:   c.ReadFailed,
		ExecutorBusy: c.ExecutorBusy,
		Stopped:      c.Stopped,
	}
	return b
}

// WithSettings sets recording settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithVideo sets video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// WithResult fills the outcome and video details from a finished encode.
func (b *Builder) WithResult(res recorder.Result) *Builder {
	s := b.summary
	if s.Session.ID == "" {
		s.Session.ID = res.SessionID
	}
	s.Session.Success = res.OK()
	if res.Err != nil {
		s.Session.Error = res.Err.Error()
	}

	s.Video.Path = res.OutputPath
	s.Video.FramesWritten = res.FramesWritten
	s.Video.WriteFailures = res.WriteFailures
	s.Video.FramesEncoded = res.FramesEncoded
	s.Video.EncodeMs = int(res.Elapsed.Milliseconds())
	if a := res.Artifact; a != nil {
		s.Video.Codec = a.Codec
		s.Video.Width = a.Width
		s.Video.Height = a.Height
		s.Video.DurationMs = a.DurationMs
		s.Video.FileSize = a.FileSize
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
