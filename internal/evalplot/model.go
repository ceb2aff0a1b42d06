// Package evalplot compares trained pose models across video compression
// levels (CRF) and compressed file sizes.
package evalplot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	TypeCentroid         = "centroid"
	TypeCenteredInstance = "centered_instance"
)

var (
	crfPattern       = regexp.MustCompile(`CRF(.*?)_`)
	crfStemPattern   = regexp.MustCompile(`(.*?CRF.*\d)_`)
	plainStemPattern = regexp.MustCompile(`(.*\d)_`)
)

type Model struct {
	Name    string
	Type    string
	CRF     int
	SizeMB  float64
	Metrics map[string]float64
}

// X returns the model's value on the named x axis ("crf" or "size_mb").
func (m Model) X(axis string) (float64, error) {
	switch axis {
	case "crf":
		return float64(m.CRF), nil
	case "size_mb":
		return m.SizeMB, nil
	}
	return 0, fmt.Errorf("unknown x axis %q", axis)
}

// CRFFromModelName extracts N from "...CRFN_..."; names without a CRF tag
// are uncompressed and return 0.
func CRFFromModelName(name string) (int, error) {
	m := crfPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, nil
	}
	crf, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("model %s: bad CRF %q", name, m[1])
	}
	return crf, nil
}

// SizeKey maps a model name to the video file it was trained on:
// "vid_CRF23_centroid" -> "vid_CRF23.mp4".
func SizeKey(name string) (string, error) {
	if m := crfStemPattern.FindStringSubmatch(name); m != nil {
		return m[1] + ".mp4", nil
	}
	if m := plainStemPattern.FindStringSubmatch(name); m != nil {
		return m[1] + ".mp4", nil
	}
	return "", fmt.Errorf("model %s: cannot derive video name", name)
}

func ModelType(name string) string {
	if strings.Contains(name, TypeCentroid) {
		return TypeCentroid
	}
	return TypeCenteredInstance
}

// LoadSizes reads "filename,bytes" rows. A non-numeric first row is taken
// as a header.
func LoadSizes(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sizes := make(map[string]float64, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: row %d: expected filename,size", path, i+1)
		}
		size, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("%s: row %d: %w", path, i+1, err)
		}
		sizes[strings.TrimSpace(row[0])] = size
	}
	return sizes, nil
}

// ListModelDirs returns the model directories under root, skipping logs.
func ListModelDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "logs" {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func modelName(dir string) string {
	base := filepath.Base(dir)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Collect loads every model's metrics for split and joins it with the size
// of the video the model was trained on.
func Collect(dirs []string, sizes map[string]float64, split string) ([]Model, error) {
	models := make([]Model, 0, len(dirs))
	for _, dir := range dirs {
		name := modelName(dir)

		crf, err := CRFFromModelName(name)
		if err != nil {
			return nil, err
		}
		key, err := SizeKey(name)
		if err != nil {
			return nil, err
		}
		size, ok := sizes[key]
		if !ok {
			return nil, fmt.Errorf("model %s: no size for %s", name, key)
		}
		metrics, err := LoadMetrics(dir, split)
		if err != nil {
			return nil, err
		}

		models = append(models, Model{
			Name:    name,
			Type:    ModelType(name),
			CRF:     crf,
			SizeMB:  size / 1e6,
			Metrics: metrics,
		})
	}
	return models, nil
}

// SortForPlot orders centroid models first, then by the x axis value.
func SortForPlot(models []Model, axis string) ([]Model, error) {
	out := append([]Model(nil), models...)
	xs := make(map[string]float64, len(out))
	for _, m := range out {
		x, err := m.X(axis)
		if err != nil {
			return nil, err
		}
		xs[m.Name] = x
	}

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Type == TypeCentroid, out[j].Type == TypeCentroid
		if ci != cj {
			return ci
		}
		return xs[out[i].Name] < xs[out[j].Name]
	})
	return out, nil
}
