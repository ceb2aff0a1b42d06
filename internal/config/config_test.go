package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".avi", cfg.Extract.VideoExt)
	assert.Equal(t, 1, cfg.Extract.Workers)
	assert.True(t, cfg.Extract.PerVideoDirs)
	assert.Equal(t, "val", cfg.Plots.Split)
	assert.Equal(t, []string{"crf", "size_mb"}, cfg.Plots.XAxes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasquash.yaml")
	content := `
extract:
  project_dir: /data/reaching
  video_ext: mp4
  workers: 4
plots:
  metrics: [dist.avg]
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("DATASQUASH_EXTRACT_WORKERS", "2")
	t.Setenv("DATASQUASH_PLOTS_X_AXES", "crf")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/reaching", cfg.Extract.ProjectDir)
	assert.Equal(t, "mp4", cfg.Extract.VideoExt)
	assert.Equal(t, 2, cfg.Extract.Workers, "env overrides file")
	assert.Equal(t, "ffmpeg", cfg.Extract.Decoder, "unset keys keep defaults")
	assert.True(t, cfg.Extract.PerVideoDirs)
	assert.Equal(t, []string{"dist.avg"}, cfg.Plots.Metrics)
	assert.Equal(t, []string{"crf"}, cfg.Plots.XAxes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestExtractValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Extract.Validate())

	cfg.Extract.ProjectDir = "/data"
	assert.NoError(t, cfg.Extract.Validate())

	cfg.Extract.Workers = -1
	assert.Error(t, cfg.Extract.Validate())
}

func TestPlotsValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Plots.ModelsDir = "models"
	cfg.Plots.SizesFile = "sizes.csv"
	assert.NoError(t, cfg.Plots.Validate())

	cfg.Plots.XAxes = []string{"bitrate"}
	assert.Error(t, cfg.Plots.Validate())
}
