package persist

import "errors"

var (
	// ErrEncodeFrame is returned when a frame cannot be serialized.
	ErrEncodeFrame = errors.New("persist: encode frame")

	// ErrWriteFrame is returned when a serialized frame cannot be stored.
	ErrWriteFrame = errors.New("persist: write frame")
)
