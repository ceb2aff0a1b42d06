package labeltable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// HeaderRows is the number of header lines (scorer, bodyparts, coords).
const HeaderRows = 3

const (
	rowScorer = iota
	rowBodyparts
	rowCoords
)

type Format int

const (
	// FormatLegacy keeps "labeled-data/<video>/<frame>" in column 0.
	FormatLegacy Format = iota
	// FormatCurrent splits the identifier over columns 0..2.
	FormatCurrent
)

func (f Format) String() string {
	switch f {
	case FormatCurrent:
		return "current"
	case FormatLegacy:
		return "legacy"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Table is a label CSV kept as raw cells so it can be written back unchanged.
type Table struct {
	Header [][]string
	Rows   [][]string
}

// RowID identifies the annotated frame behind a data row.
type RowID struct {
	Row   int
	Video string
	Frame string
	// Key is the identifier cell that is matched against video ids.
	Key string
}

func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &FormatError{Row: -1, Reason: "invalid csv", Err: err}
	}
	if len(records) < HeaderRows {
		return nil, &FormatError{Row: -1, Reason: fmt.Sprintf("expected %d header rows, got %d", HeaderRows, len(records))}
	}

	return &Table{Header: records[:HeaderRows], Rows: records[HeaderRows:]}, nil
}

func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Format inspects column 1 of the coords header row: an empty (or
// "Unnamed: ...") cell means column 1 is an identifier column.
func (t *Table) Format() (Format, error) {
	coords := t.Header[rowCoords]
	if len(coords) < 2 {
		return FormatLegacy, &FormatError{Row: -1, Reason: fmt.Sprintf("expected at least 2 columns, got %d", len(coords))}
	}
	if isPlaceholder(coords[1]) {
		return FormatCurrent, nil
	}
	return FormatLegacy, nil
}

func isPlaceholder(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell == "" || strings.HasPrefix(cell, "Unnamed")
}

func (t *Table) Identifiers() ([]RowID, error) {
	format, err := t.Format()
	if err != nil {
		return nil, err
	}

	ids := make([]RowID, 0, len(t.Rows))
	for i, row := range t.Rows {
		var id RowID
		switch format {
		case FormatCurrent:
			if len(row) < 3 {
				return nil, &FormatError{Row: i, Reason: fmt.Sprintf("expected 3 identifier columns, got %d", len(row))}
			}
			id = RowID{Row: i, Video: row[1], Frame: row[2], Key: row[1]}
		default:
			if len(row) < 1 {
				return nil, &FormatError{Row: i, Reason: "empty row"}
			}
			parts := strings.Split(row[0], "/")
			if len(parts) < 3 {
				return nil, &FormatError{Row: i, Reason: fmt.Sprintf("path %q has fewer than 3 segments", row[0])}
			}
			id = RowID{Row: i, Video: parts[1], Frame: parts[2], Key: row[0]}
		}
		if strings.TrimSpace(id.Video) == "" {
			return nil, &FormatError{Row: i, Reason: "empty video id"}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var digitRun = regexp.MustCompile(`\d+`)

// ParseFrameIndex returns the first run of decimal digits in cell as an
// integer, so "img0042.png" is frame 42.
func ParseFrameIndex(cell string) (int, error) {
	m := digitRun.FindString(cell)
	if m == "" {
		return 0, &ParseError{Row: -1, Cell: cell}
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, &ParseError{Row: -1, Cell: cell, Err: err}
	}
	return n, nil
}

func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func (t *Table) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
