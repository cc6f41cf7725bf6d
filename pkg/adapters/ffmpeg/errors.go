package ffmpeg

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
	ErrFFmpegNotFound = errors.New("ffmpeg not found")

	// ErrStart is returned when the encoder process cannot be launched.
	ErrStart = errors.New("ffmpeg: start process")
)
