package recorder

import "github.com/user/framerec/pkg/dispatch"

// Stats is a snapshot of recorder activity since New.
type Stats struct {
	State    string
	Captures dispatch.Counters

	QueueDepth    int
	QueueCapacity int
	FramesWritten uint64
	WriteFailures uint64

	SessionsStarted   uint64
	SessionsSucceeded uint64
	SessionsFailed    uint64
}

// Stats returns current counters. Frame counts include the live session
// until its encode finishes, so they never go backwards.
func (r *Recorder) Stats() Stats {
	st := Stats{
		State:             r.ctrl.State().String(),
		Captures:          r.dispatcher.Counters(),
		SessionsStarted:   r.sessionsStarted.Load(),
		SessionsSucceeded: r.sessionsSucceeded.Load(),
		SessionsFailed:    r.sessionsFailed.Load(),
	}

	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	st.FramesWritten = r.framesWritten
	st.WriteFailures = r.writeFailures
	if s := r.live; s != nil {
		st.QueueDepth = s.Queue.Size()
		st.QueueCapacity = s.Queue.Capacity()
		st.FramesWritten += s.Writer.Written()
		st.WriteFailures += s.Writer.Failed()
	}
	return st
}
