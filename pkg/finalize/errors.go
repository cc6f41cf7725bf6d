package finalize

import "errors"

var (
	// ErrEncoderNotFound is returned when the encoder executable does not exist.
	ErrEncoderNotFound = errors.New("finalize: encoder executable not found")

	// ErrNoFrames is returned when the session persisted no frames.
	ErrNoFrames = errors.New("finalize: no frames to encode")

	// ErrEncoderFailed is returned when the encoder exits with a non-zero code.
	ErrEncoderFailed = errors.New("finalize: encoder failed")

	// ErrEncoderParams is returned when the encoder parameters cannot be split
	// into arguments, such as an unterminated quote.
	ErrEncoderParams = errors.New("finalize: invalid encoder parameters")

	// ErrCleanup is returned when the temp directory cannot be removed.
	ErrCleanup = errors.New("finalize: remove temp directory")
)
