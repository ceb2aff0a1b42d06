package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.FramesSaved.Inc()
	m.FramesSaved.Inc()
	m.VideosSkipped.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesSaved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VideosSkipped))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DecodeFailures))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.VideosOpened.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.VideosOpened))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.VideosOpened))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.FramesSaved.Add(3)
	m.DecodeSeconds.Observe(0.02)

	path := filepath.Join(t.TempDir(), "datasquash.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "datasquash_frames_saved_total 3")
	assert.Contains(t, string(data), "datasquash_frame_decode_seconds_count 1")
}
