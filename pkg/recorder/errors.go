package recorder

import "errors"

var (
	// ErrNotRecording is reported when stop is requested with no active session.
	ErrNotRecording = errors.New("recorder: no recording session")

	// ErrBusy is returned when a session is already starting, recording or finalizing.
	ErrBusy = errors.New("recorder: session already active")

	// ErrInvalidFPS is returned for a negative capture rate.
	ErrInvalidFPS = errors.New("recorder: capture fps must not be negative")

	// ErrLocked is returned when another process holds the temp directory lock.
	ErrLocked = errors.New("recorder: temp directory locked by another process")
)
