package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "DATASQUASH_"

type Config struct {
	Extract ExtractConfig `yaml:"extract" envPrefix:"EXTRACT_"`
	Plots   PlotsConfig   `yaml:"plots" envPrefix:"PLOTS_"`

	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat    string `yaml:"log_format" env:"LOG_FORMAT"`
	MetricsFile  string `yaml:"metrics_file" env:"METRICS_FILE"`
	ShowStats    bool   `yaml:"show_stats" env:"SHOW_STATS"`
	BenchmarkLog string `yaml:"benchmark_log" env:"BENCHMARK_LOG"`
	BuildVersion string `yaml:"-"`
}

// ExtractConfig drives cmd/extract-frames.
type ExtractConfig struct {
	ProjectDir string `yaml:"project_dir" env:"PROJECT_DIR"`
	// LabelsFile is relative to ProjectDir; empty picks the newest CollectedData*.csv.
	LabelsFile     string `yaml:"labels_file" env:"LABELS_FILE"`
	VideoExt       string `yaml:"video_ext" env:"VIDEO_EXT"`
	OutputDir      string `yaml:"output_dir" env:"OUTPUT_DIR"`
	Decoder        string `yaml:"decoder" env:"DECODER"`
	Workers        int    `yaml:"workers" env:"WORKERS"`
	PerVideoDirs   bool   `yaml:"per_video_dirs" env:"PER_VIDEO_DIRS"`
	MatchSubstring bool   `yaml:"match_substring" env:"MATCH_SUBSTRING"`
	Progress       bool   `yaml:"progress" env:"PROGRESS"`
	ReportPath     string `yaml:"report_path" env:"REPORT_PATH"`
}

// PlotsConfig drives cmd/eval-plots.
type PlotsConfig struct {
	ModelsDir string   `yaml:"models_dir" env:"MODELS_DIR"`
	SizesFile string   `yaml:"sizes_file" env:"SIZES_FILE"`
	OutputDir string   `yaml:"output_dir" env:"OUTPUT_DIR"`
	Split     string   `yaml:"split" env:"SPLIT"`
	Metrics   []string `yaml:"metrics" env:"METRICS" envSeparator:","`
	XAxes     []string `yaml:"x_axes" env:"X_AXES" envSeparator:","`
	Width     int      `yaml:"width" env:"WIDTH"`
	Height    int      `yaml:"height" env:"HEIGHT"`
}

func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			VideoExt:     ".avi",
			Decoder:      "ffmpeg",
			Workers:      1,
			PerVideoDirs: true,
		},
		Plots: PlotsConfig{
			OutputDir: "output_plots",
			Split:     "val",
			Metrics:   []string{"oks_voc.mAP", "pck_voc.mAP", "dist.avg", "dist.p50"},
			XAxes:     []string{"crf", "size_mb"},
			Width:     800,
			Height:    600,
		},
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load applies, in order: defaults, the YAML file at path (if any) and
// DATASQUASH_* environment variables. Flags are applied by the caller.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the extraction settings.
func (c *ExtractConfig) Validate() error {
	var errs []error
	if c.ProjectDir == "" {
		errs = append(errs, errors.New("project dir is required"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Decoder == "" {
		errs = append(errs, errors.New("decoder is required"))
	}
	return errors.Join(errs...)
}

// Validate checks the plotting settings.
func (c *PlotsConfig) Validate() error {
	var errs []error
	if c.ModelsDir == "" {
		errs = append(errs, errors.New("models dir is required"))
	}
	if c.SizesFile == "" {
		errs = append(errs, errors.New("sizes file is required"))
	}
	if len(c.Metrics) == 0 {
		errs = append(errs, errors.New("at least one metric is required"))
	}
	for _, x := range c.XAxes {
		if x != "crf" && x != "size_mb" {
			errs = append(errs, fmt.Errorf("unknown x axis %q", x))
		}
	}
	if c.Width < 200 || c.Height < 150 {
		errs = append(errs, fmt.Errorf("plot size %dx%d is too small", c.Width, c.Height))
	}
	return errors.Join(errs...)
}
