package plot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Scatter {
	return &Scatter{
		Title:  "oks_voc.mAP vs crf",
		XLabel: "crf",
		YLabel: "oks_voc.mAP",
		Points: []Point{
			{X: 17, Y: 0.71, Group: "centroid"},
			{X: 23, Y: 0.69, Group: "centroid"},
			{X: 17, Y: 0.82, Group: "centered_instance"},
			{X: 35, Y: 0.55, Group: "centered_instance"},
		},
	}
}

func TestGroups(t *testing.T) {
	s := sample()
	assert.Equal(t, []string{"centroid", "centered_instance"}, s.Groups())
	assert.Equal(t, palette[0], s.GroupColor("centroid"))
	assert.Equal(t, palette[1], s.GroupColor("centered_instance"))
	assert.Equal(t, black, s.GroupColor("unknown"))
}

func TestRenderDrawsMarkers(t *testing.T) {
	s := sample()
	img := s.Render(640, 480)
	require.Equal(t, 640, img.Bounds().Dx())

	xs := []float64{17, 23, 17, 35}
	ys := []float64{0.71, 0.69, 0.82, 0.55}
	xa := axis{from: marginLeft, to: 640 - marginRight}
	xa.min, xa.max = span(xs)
	ya := axis{from: 480 - marginBottom, to: marginTop}
	ya.min, ya.max = span(ys)

	for _, p := range s.Points {
		got := img.RGBAAt(int(xa.px(p.X)), int(ya.px(p.Y)))
		assert.Equal(t, s.GroupColor(p.Group), got, "marker at %v,%v", p.X, p.Y)
	}
}

func TestRenderSinglePoint(t *testing.T) {
	s := &Scatter{Points: []Point{{X: 3, Y: 3, Group: "a"}}}
	img := s.Render(400, 300)
	assert.NotNil(t, img)

	empty := &Scatter{Title: "nothing"}
	assert.NotNil(t, empty.Render(400, 300))
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.png")
	require.NoError(t, sample().SavePNG(path, 640, 480))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}

func TestSpan(t *testing.T) {
	lo, hi := span([]float64{5, 5})
	assert.Equal(t, 4.0, lo)
	assert.Equal(t, 6.0, hi)

	lo, hi = span([]float64{0, 10})
	assert.InDelta(t, -0.5, lo, 1e-9)
	assert.InDelta(t, 10.5, hi, 1e-9)

	lo, hi = span(nil)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "0.50", formatTick(0.5))
	assert.Equal(t, "17.00", formatTick(17))
	assert.Equal(t, "1.5e+06", formatTick(1.5e6))
	assert.Equal(t, "0.00", formatTick(0))
}
