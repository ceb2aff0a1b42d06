package evalplot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadMetrics reads metrics.<split>.json (or .yaml/.yml) from a model
// directory and flattens nested keys with ".", e.g. "oks_voc.mAP".
func LoadMetrics(modelDir, split string) (map[string]float64, error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(modelDir, "metrics."+split+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var raw map[string]any
		unmarshal := yaml.Unmarshal
		if ext == ".json" {
			unmarshal = json.Unmarshal
		}
		if err := unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		out := make(map[string]float64)
		flatten("", raw, out)
		return out, nil
	}
	return nil, fmt.Errorf("no metrics.%s.{json,yaml} in %s", split, modelDir)
}

func flatten(prefix string, v any, out map[string]float64) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case int:
		out[prefix] = float64(t)
	case int64:
		out[prefix] = float64(t)
	case uint64:
		out[prefix] = float64(t)
	case float64:
		out[prefix] = t
	}
}
