package evalplot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivlev/datasquash/internal/plot"
)

// Plot writes one <metric>_vs_<axis>.png scatter per metric into outDir,
// colored by model type, and returns the written paths.
func Plot(models []Model, metrics []string, axis, outDir string, width, height int) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	sorted, err := SortForPlot(models, axis)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, metric := range metrics {
		s := &plot.Scatter{
			Title:  fmt.Sprintf("%s vs %s", metric, axis),
			XLabel: axis,
			YLabel: metric,
		}
		for _, m := range sorted {
			y, ok := m.Metrics[metric]
			if !ok {
				return paths, fmt.Errorf("model %s: no metric %q", m.Name, metric)
			}
			x, _ := m.X(axis)
			s.Points = append(s.Points, plot.Point{X: x, Y: y, Group: m.Type})
		}

		path := filepath.Join(outDir, fmt.Sprintf("%s_vs_%s.png", metric, axis))
		if err := s.SavePNG(path, width, height); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
