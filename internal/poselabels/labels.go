// Package poselabels reads and rewrites SLEAP-style JSON label files.
// Only the video references are interpreted; every other field is carried
// through verbatim.
package poselabels

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

type Labels struct {
	fields map[string]json.RawMessage
}

type Video struct {
	Filename string
}

type Instance struct {
	Points json.RawMessage `json:"points"`
	Track  json.RawMessage `json:"track"`
}

type LabeledFrame struct {
	FrameIdx  int             `json:"frame_idx"`
	Video     json.RawMessage `json:"video"`
	Instances []Instance      `json:"_instances"`
}

func Load(path string) (*Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isGzip(path) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

func Parse(data []byte) (*Labels, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	if _, ok := fields["videos"]; !ok {
		return nil, fmt.Errorf("parse labels: no videos field")
	}
	return &Labels{fields: fields}, nil
}

func (l *Labels) rawVideos() ([]map[string]json.RawMessage, error) {
	var videos []map[string]json.RawMessage
	if err := json.Unmarshal(l.fields["videos"], &videos); err != nil {
		return nil, fmt.Errorf("parse videos: %w", err)
	}
	return videos, nil
}

func (l *Labels) Videos() ([]Video, error) {
	raw, err := l.rawVideos()
	if err != nil {
		return nil, err
	}

	videos := make([]Video, len(raw))
	for i, v := range raw {
		name, err := videoFilename(v)
		if err != nil {
			return nil, fmt.Errorf("video %d: %w", i, err)
		}
		videos[i] = Video{Filename: name}
	}
	return videos, nil
}

// videoFilename reads backend.filename, falling back to a top-level filename.
func videoFilename(v map[string]json.RawMessage) (string, error) {
	var name string
	if b, ok := v["backend"]; ok {
		var backend map[string]json.RawMessage
		if err := json.Unmarshal(b, &backend); err != nil {
			return "", err
		}
		if f, ok := backend["filename"]; ok {
			err := json.Unmarshal(f, &name)
			return name, err
		}
	}
	if f, ok := v["filename"]; ok {
		err := json.Unmarshal(f, &name)
		return name, err
	}
	return "", fmt.Errorf("no filename")
}

// SetVideoFilename points video i at filename, updating both the backend
// and any top-level filename field.
func (l *Labels) SetVideoFilename(i int, filename string) error {
	raw, err := l.rawVideos()
	if err != nil {
		return err
	}
	if i < 0 || i >= len(raw) {
		return fmt.Errorf("video %d out of range [0, %d)", i, len(raw))
	}

	name, err := json.Marshal(filename)
	if err != nil {
		return err
	}

	v := raw[i]
	backend := map[string]json.RawMessage{}
	if b, ok := v["backend"]; ok {
		if err := json.Unmarshal(b, &backend); err != nil {
			return fmt.Errorf("video %d backend: %w", i, err)
		}
	}
	backend["filename"] = name
	if v["backend"], err = json.Marshal(backend); err != nil {
		return err
	}
	if _, ok := v["filename"]; ok {
		v["filename"] = name
	}

	l.fields["videos"], err = json.Marshal(raw)
	return err
}

func (l *Labels) Frames() ([]LabeledFrame, error) {
	data, ok := l.fields["labels"]
	if !ok {
		return nil, nil
	}
	var frames []LabeledFrame
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return frames, nil
}

func (l *Labels) Save(path string) error {
	data, err := json.Marshal(l.fields)
	if err != nil {
		return err
	}

	if isGzip(path) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	return os.WriteFile(path, data, 0644)
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
