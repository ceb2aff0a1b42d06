package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Report struct {
	RunID     string        `yaml:"run_id,omitempty"`
	OutputDir string        `yaml:"output_dir"`
	Started   time.Time     `yaml:"started"`
	Elapsed   time.Duration `yaml:"elapsed"`
	Videos    []VideoReport `yaml:"videos"`
	Error     string        `yaml:"error,omitempty"`
}

type VideoReport struct {
	Video         string         `yaml:"video"`
	Path          string         `yaml:"path"`
	Opened        bool           `yaml:"opened"`
	OpenError     string         `yaml:"open_error,omitempty"`
	// Canceled is set when the run stopped before this video finished.
	Canceled      bool           `yaml:"canceled,omitempty"`
	FrameCount    int            `yaml:"frame_count"`
	Requested     int            `yaml:"requested"`
	OutputDir     string         `yaml:"output_dir,omitempty"`
	Saved         []string       `yaml:"saved,omitempty"`
	WriteFailures []FrameFailure `yaml:"write_failures,omitempty"`
}

type FrameFailure struct {
	Frame int    `yaml:"frame"`
	Path  string `yaml:"path"`
	Error string `yaml:"error"`
}

func (r *Report) SavedCount() int {
	n := 0
	for _, v := range r.Videos {
		n += len(v.Saved)
	}
	return n
}

// Skipped lists the paths of videos that could not be opened.
func (r *Report) Skipped() []string {
	var out []string
	for _, v := range r.Videos {
		if v.OpenError != "" {
			out = append(out, v.Path)
		}
	}
	return out
}

// WriteReport saves the report as YAML, replacing any previous file.
func WriteReport(report *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		f.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
