package engine

import "fmt"

// OpenError means a video could not be opened. The video is skipped and
// the run continues.
type OpenError struct {
	Video string
	Err   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Video, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// DecodeError means a requested frame could not be decoded. It aborts the run.
type DecodeError struct {
	Video string
	Frame int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to load frame %d from %s: %v", e.Frame, e.Video, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WriteError means a decoded frame could not be saved. It is logged and
// recorded; extraction continues with the next frame.
type WriteError struct {
	Video string
	Frame int
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write frame %d of %s to %s: %v", e.Frame, e.Video, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
