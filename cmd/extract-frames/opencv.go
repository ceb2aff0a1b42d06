//go:build opencv

package main

import (
	"github.com/ivlev/datasquash/internal/source"
	"github.com/ivlev/datasquash/internal/source/opencv"
)

// Built with -tags opencv; needs OpenCV 4 and cgo.
func init() {
	source.Register("opencv", opencv.New)
}
