package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	files := map[string]time.Duration{
		"CollectedData_old.csv":  -2 * time.Hour,
		"CollectedData_new.CSV":  -1 * time.Hour,
		"CollectedData_x.h5":     0,
		"MachineLabels_late.csv": 0,
	}
	for name, age := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		require.NoError(t, os.Chtimes(path, now.Add(age), now.Add(age)))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "CollectedData_dir.csv"), 0755))

	got, err := FindLatest(dir, "CollectedData", ".csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "CollectedData_new.CSV"), got)
}

func TestFindLatestNone(t *testing.T) {
	_, err := FindLatest(t.TempDir(), "CollectedData", ".csv")
	assert.Error(t, err)
}

func TestCPUCount(t *testing.T) {
	assert.GreaterOrEqual(t, CPUCount(), 1)
}

func TestStatsReport(t *testing.T) {
	s := CollectStats(Stats{Build: "test", Elapsed: 2 * time.Second, Videos: 3, Skipped: 1, Frames: 10, Workers: 2})

	assert.GreaterOrEqual(t, s.CPUs, 1)
	assert.InDelta(t, 5.0, s.FramesPerSecond(), 1e-9)

	report := s.Report()
	assert.Contains(t, report, "Videos:           3 (1 skipped)")
	assert.Contains(t, report, "Frames saved:     10")
	assert.Contains(t, report, "5.00 frames/s")
}

func TestStatsAppendLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benchmark.log")
	s := Stats{Build: "b1", Elapsed: time.Second, Frames: 4}

	require.NoError(t, s.AppendLog(path))
	require.NoError(t, s.AppendLog(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Build: b1 | Videos: 0 | Frames: 4")
}
