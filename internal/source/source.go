package source

import (
	"context"
	"errors"
	"image"
)

// ErrNoFrame is returned when a seek succeeds but no image comes back.
var ErrNoFrame = errors.New("decoder returned no frame")

// Decoder opens videos for random-access frame decoding.
type Decoder interface {
	Open(ctx context.Context, path string) (Capture, error)
}

// Capture is an open video. Frame indices are zero-based.
type Capture interface {
	FrameCount() int
	Frame(ctx context.Context, index int) (image.Image, error)
	Close() error
}
