package session

import (
	"sync/atomic"
)

// State is the lifecycle state of the recorder.
type State int32

const (
	// Idle means no session exists.
	Idle State = iota
	// Starting means a session is being set up. It is busy but not recording.
	Starting
	// Recording means captures are accepted.
	Recording
	// Finalizing means capture has stopped and the encode is in progress.
	Finalizing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Recording:
		return "recording"
	case Finalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Controller guarantees that at most one session is outside Idle.
//
//	Idle -> Starting -> Recording -> Finalizing -> Idle
//	          \-> Idle (setup failed)
type Controller struct {
	state atomic.Int32

	// accepting is set while Recording; captures read it without locking.
	accepting atomic.Pointer[Session]
	// current lives from Activate until Release.
	current atomic.Pointer[Session]
}

// NewController returns a controller in Idle.
func NewController() *Controller {
	return &Controller{}
}

// TryBegin moves Idle to Starting. It returns false when any session is active.
func (c *Controller) TryBegin() bool {
	return c.state.CompareAndSwap(int32(Idle), int32(Starting))
}

// Abort rolls a failed setup back from Starting to Idle.
func (c *Controller) Abort() bool {
	return c.state.CompareAndSwap(int32(Starting), int32(Idle))
}

// Activate publishes s and moves Starting to Recording.
func (c *Controller) Activate(s *Session) bool {
	if State(c.state.Load()) != Starting {
		return false
	}
	c.current.Store(s)
	c.accepting.Store(s)
	if !c.state.CompareAndSwap(int32(Starting), int32(Recording)) {
		c.accepting.Store(nil)
		c.current.Store(nil)
		return false
	}
	return true
}

// Detach stops accepting captures and moves Recording to Finalizing.
// It returns the session to finalize, or false when not recording.
func (c *Controller) Detach() (*Session, bool) {
	if !c.state.CompareAndSwap(int32(Recording), int32(Finalizing)) {
		return nil, false
	}
	c.accepting.Store(nil)
	return c.current.Load(), true
}

// Release returns Finalizing to Idle and drops the session.
func (c *Controller) Release() bool {
	if State(c.state.Load()) != Finalizing {
		return false
	}
	c.current.Store(nil)
	return c.state.CompareAndSwap(int32(Finalizing), int32(Idle))
}

// Accepting returns the session that is currently taking captures, or nil.
func (c *Controller) Accepting() *Session {
	return c.accepting.Load()
}

// Current returns the session being recorded or finalized, or nil.
func (c *Controller) Current() *Session {
	return c.current.Load()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// IsRecording reports whether captures are being accepted.
func (c *Controller) IsRecording() bool {
	return c.State() == Recording
}

// IsBusy reports whether a session exists in any phase.
func (c *Controller) IsBusy() bool {
	return c.State() != Idle
}
