package labeltable

import (
	"fmt"
	"strconv"
	"strings"
)

// ShiftY adds dy to every "y" coordinate of the given 1-based data rows.
// Empty cells (unlabeled keypoints) are left alone.
func (t *Table) ShiftY(rows []int, dy float64) error {
	var ycols []int
	for i, c := range t.Header[rowCoords] {
		if strings.TrimSpace(c) == "y" {
			ycols = append(ycols, i)
		}
	}
	if len(ycols) == 0 {
		return &FormatError{Row: -1, Reason: "no y columns in coords header"}
	}

	for _, r := range rows {
		if r < 1 || r > len(t.Rows) {
			return fmt.Errorf("row %d out of range [1, %d]", r, len(t.Rows))
		}
	}

	for _, r := range rows {
		row := t.Rows[r-1]
		for _, c := range ycols {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[c]), 64)
			if err != nil {
				return &ParseError{Row: r - 1, Cell: row[c], Err: err}
			}
			row[c] = strconv.FormatFloat(v+dy, 'f', -1, 64)
		}
	}
	return nil
}
