//go:build opencv

// Package opencv decodes videos through OpenCV's VideoCapture (cgo).
package opencv

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ivlev/datasquash/internal/source"
)

type Decoder struct{}

// New matches source.Factory.
func New() (source.Decoder, error) {
	return &Decoder{}, nil
}

func (d *Decoder) Open(ctx context.Context, path string) (source.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, err
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("opencv: cannot open %s", path)
	}

	return &capture{vc: vc, frames: int(vc.Get(gocv.VideoCaptureFrameCount))}, nil
}

type capture struct {
	vc     *gocv.VideoCapture
	frames int
}

func (c *capture) FrameCount() int {
	return c.frames
}

func (c *capture) Frame(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= c.frames {
		return nil, fmt.Errorf("%w: index %d outside [0, %d)", source.ErrNoFrame, index, c.frames)
	}

	c.vc.Set(gocv.VideoCapturePosFrames, float64(index))

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := c.vc.Read(&mat); !ok || mat.Empty() {
		return nil, source.ErrNoFrame
	}
	return mat.ToImage()
}

func (c *capture) Close() error {
	return c.vc.Close()
}
