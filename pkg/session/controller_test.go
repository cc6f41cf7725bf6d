package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/user/framerec/pkg/adapters/logger"
	"github.com/user/framerec/pkg/framequeue"
	"github.com/user/framerec/pkg/mocks"
	"github.com/user/framerec/pkg/persist"
)

func newSession() *Session {
	q := framequeue.New(4)
	w := persist.New(q, mocks.NewFileSystem(), &mocks.ImageEncoder{}, logger.NewNoop(), persist.Config{Dir: "/tmp/s"})
	return New("/tmp/s", "bmp", 30, q, w, time.Unix(0, 0))
}

func TestController_Lifecycle(t *testing.T) {
	c := NewController()
	if c.State() != Idle || c.IsBusy() || c.IsRecording() {
		t.Fatalf("new controller state = %v", c.State())
	}

	if !c.TryBegin() {
		t.Fatal("TryBegin from Idle failed")
	}
	if c.State() != Starting || !c.IsBusy() || c.IsRecording() {
		t.Errorf("after TryBegin: state=%v busy=%v recording=%v", c.State(), c.IsBusy(), c.IsRecording())
	}
	if c.Accepting() != nil {
		t.Error("Starting must not accept captures")
	}

	s := newSession()
	if !c.Activate(s) {
		t.Fatal("Activate failed")
	}
	if !c.IsRecording() || c.Accepting() != s || c.Current() != s {
		t.Errorf("after Activate: state=%v", c.State())
	}

	got, ok := c.Detach()
	if !ok || got != s {
		t.Fatalf("Detach() = %v, %v", got, ok)
	}
	if c.State() != Finalizing || !c.IsBusy() || c.IsRecording() {
		t.Errorf("after Detach: state=%v", c.State())
	}
	if c.Accepting() != nil {
		t.Error("Finalizing must not accept captures")
	}
	if c.Current() != s {
		t.Error("session must stay current while finalizing")
	}

	if !c.Release() {
		t.Fatal("Release failed")
	}
	if c.State() != Idle || c.Current() != nil {
		t.Errorf("after Release: state=%v current=%v", c.State(), c.Current())
	}
}

func TestController_BeginRejectedWhileBusy(t *testing.T) {
	c := NewController()
	c.TryBegin()
	if c.TryBegin() {
		t.Error("second TryBegin should fail while Starting")
	}
	c.Activate(newSession())
	if c.TryBegin() {
		t.Error("TryBegin should fail while Recording")
	}
	c.Detach()
	if c.TryBegin() {
		t.Error("TryBegin should fail while Finalizing")
	}
	c.Release()
	if !c.TryBegin() {
		t.Error("TryBegin should succeed after Release")
	}
}

func TestController_AbortRollsBack(t *testing.T) {
	c := NewController()
	c.TryBegin()
	if !c.Abort() {
		t.Fatal("Abort from Starting failed")
	}
	if c.IsBusy() {
		t.Error("controller busy after Abort")
	}
	if c.Abort() {
		t.Error("Abort from Idle should fail")
	}
}

func TestController_InvalidTransitions(t *testing.T) {
	c := NewController()
	if _, ok := c.Detach(); ok {
		t.Error("Detach from Idle should fail")
	}
	if c.Release() {
		t.Error("Release from Idle should fail")
	}
	if c.Activate(newSession()) {
		t.Error("Activate from Idle should fail")
	}

	c.TryBegin()
	if _, ok := c.Detach(); ok {
		t.Error("Detach from Starting should fail")
	}
	if c.State() != Starting {
		t.Errorf("state changed by failed Detach: %v", c.State())
	}

	c.Activate(newSession())
	if c.Release() {
		t.Error("Release from Recording should fail")
	}
	c.Detach()
	if _, ok := c.Detach(); ok {
		t.Error("second Detach should fail")
	}
}

func TestController_ConcurrentBeginSingleWinner(t *testing.T) {
	c := NewController()
	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.TryBegin() {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("wins = %d, want 1", wins)
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		Idle:       "idle",
		Starting:   "starting",
		Recording:  "recording",
		Finalizing: "finalizing",
		State(99):  "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestSession_SequenceStartsAtOne(t *testing.T) {
	s := newSession()
	if s.ID == "" {
		t.Error("session id is empty")
	}
	if got := s.NextSequence(); got != 1 {
		t.Errorf("first sequence = %d, want 1", got)
	}
	if got := s.NextSequence(); got != 2 {
		t.Errorf("second sequence = %d, want 2", got)
	}
	if s.Sequences() != 2 {
		t.Errorf("Sequences() = %d, want 2", s.Sequences())
	}
	if s.Limiter.Interval() != time.Second/30 {
		t.Errorf("limiter interval = %v", s.Limiter.Interval())
	}
}
