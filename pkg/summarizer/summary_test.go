package summarizer

import (
	"errors"
	"testing"
	"time"

	"github.com/user/framerec/pkg/dispatch"
	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/recorder"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithSession(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	summary := NewBuilder().
		WithSession("abc", start, 2500*time.Millisecond).
		Build()

	if summary.Session.ID != "abc" {
		t.Errorf("expected ID 'abc', got '%s'", summary.Session.ID)
	}
	if !summary.Session.StartedAt.Equal(start) {
		t.Errorf("expected StartedAt %v, got %v", start, summary.Session.StartedAt)
	}
	if summary.Session.DurationMs != 2500 {
		t.Errorf("expected DurationMs 2500, got %d", summary.Session.DurationMs)
	}
}

func TestBuilder_WithCounters(t *testing.T) {
	summary := NewBuilder().
		WithCounters(dispatch.Counters{
			Accepted:     10,
			NotRecording: 99,
			QueueFull:    1,
			RateLimited:  2,
			OutOfBounds:  3,
			ReadFailed:   4,
			ExecutorBusy: 5,
			Stopped:      6,
		}).
		Build()

	if summary.Capture.Accepted != 10 {
		t.Errorf("expected Accepted 10, got %d", summary.Capture.Accepted)
	}
	if got := summary.Capture.Dropped(); got != 21 {
		t.Errorf("expected Dropped 21, got %d", got)
	}
}

func TestBuilder_WithResult_Success(t *testing.T) {
	res := recorder.Result{
		SessionID: "sess-1",
		FinalizeResult: pipeline.FinalizeResult{
			OutputPath:    "/out/video.mp4",
			FramesWritten: 30,
			WriteFailures: 1,
			FramesEncoded: 29,
			Elapsed:       1500 * time.Millisecond,
			Artifact: &pipeline.ArtifactInfo{
				Codec:      "avc1",
				Width:      640,
				Height:     480,
				DurationMs: 1000,
				FileSize:   4096,
			},
		},
	}

	summary := NewBuilder().WithResult(res).Build()

	if summary.Session.ID != "sess-1" {
		t.Errorf("expected ID 'sess-1', got '%s'", summary.Session.ID)
	}
	if !summary.Session.Success {
		t.Error("expected Success to be true")
	}
	v := summary.Video
	if v.Path != "/out/video.mp4" || v.FramesWritten != 30 || v.WriteFailures != 1 || v.FramesEncoded != 29 {
		t.Errorf("unexpected video info: %+v", v)
	}
	if v.Codec != "avc1" || v.Width != 640 || v.Height != 480 || v.DurationMs != 1000 || v.FileSize != 4096 {
		t.Errorf("artifact not copied: %+v", v)
	}
	if v.EncodeMs != 1500 {
		t.Errorf("expected EncodeMs 1500, got %d", v.EncodeMs)
	}
}

func TestBuilder_WithResult_Failure(t *testing.T) {
	res := recorder.Result{
		SessionID: "sess-2",
		Err:       errors.New("encoder exited with code 1"),
	}

	summary := NewBuilder().
		WithSession("kept", time.Time{}, 0).
		WithResult(res).
		Build()

	if summary.Session.ID != "kept" {
		t.Errorf("expected explicit ID to be kept, got '%s'", summary.Session.ID)
	}
	if summary.Session.Success {
		t.Error("expected Success to be false")
	}
	if summary.Session.Error != "encoder exited with code 1" {
		t.Errorf("unexpected Error %q", summary.Session.Error)
	}
}

func TestBuilder_WithSettings(t *testing.T) {
	settings := Settings{
		Source:      "pattern",
		CaptureFPS:  30,
		ImageFormat: "bmp",
		FrameRate:   30,
	}

	summary := NewBuilder().WithSettings(settings).Build()

	if summary.Settings != settings {
		t.Errorf("expected %+v, got %+v", settings, summary.Settings)
	}
}
