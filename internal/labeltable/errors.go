package labeltable

import "fmt"

// FormatError reports a table whose layout matches neither the current nor
// the legacy label format. Row is the 0-based data row, or -1 for the header.
type FormatError struct {
	Row    int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "label table: " + e.Reason
	if e.Row >= 0 {
		msg = fmt.Sprintf("label table row %d: %s", e.Row, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// ParseError reports a cell that could not be interpreted.
type ParseError struct {
	Row  int
	Cell string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("label table row %d: cannot parse %q: %v", e.Row, e.Cell, e.Err)
	}
	return fmt.Sprintf("label table row %d: no frame number in %q", e.Row, e.Cell)
}

func (e *ParseError) Unwrap() error { return e.Err }
