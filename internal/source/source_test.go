package source

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeFrame(t *testing.T, path string, shade uint8, encode func(*os.File, image.Image) error) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{shade, uint8(x), uint8(y), 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(f, img))
	require.NoError(t, f.Close())
}

func encodePNG(f *os.File, img image.Image) error { return png.Encode(f, img) }
func encodeBMP(f *os.File, img image.Image) error { return bmp.Encode(f, img) }

func TestImageSequence(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, filepath.Join(dir, "img002.png"), 20, encodePNG)
	writeFrame(t, filepath.Join(dir, "img000.png"), 0, encodePNG)
	writeFrame(t, filepath.Join(dir, "img001.bmp"), 10, encodeBMP)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	ctx := context.Background()
	capture, err := ImageSequenceDecoder{}.Open(ctx, dir)
	require.NoError(t, err)
	defer capture.Close()

	require.Equal(t, 3, capture.FrameCount())
	for i, shade := range []uint8{0, 10, 20} {
		img, err := capture.Frame(ctx, i)
		require.NoError(t, err)
		r, _, _, _ := img.At(0, 0).RGBA()
		assert.Equal(t, uint32(shade)*0x101, r, "frame %d", i)
	}

	_, err = capture.Frame(ctx, 3)
	assert.True(t, errors.Is(err, ErrNoFrame))
	_, err = capture.Frame(ctx, -1)
	assert.True(t, errors.Is(err, ErrNoFrame))
}

func TestImageSequenceOpenErrors(t *testing.T) {
	ctx := context.Background()
	_, err := ImageSequenceDecoder{}.Open(ctx, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "video.avi")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = ImageSequenceDecoder{}.Open(ctx, file)
	assert.Error(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ImageSequenceDecoder{}.Open(canceled, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrameCountFromProbe(t *testing.T) {
	tests := []struct {
		name    string
		probe   string
		want    int
		wantErr bool
	}{
		{
			name:  "nb_frames",
			probe: `{"streams":[{"codec_type":"audio"},{"codec_type":"video","nb_frames":"100","avg_frame_rate":"30/1"}]}`,
			want:  100,
		},
		{
			name:  "duration fallback",
			probe: `{"streams":[{"codec_type":"video","avg_frame_rate":"30000/1001","duration":"10.010"}]}`,
			want:  300,
		},
		{
			name:  "format duration",
			probe: `{"streams":[{"codec_type":"video","nb_frames":"N/A","avg_frame_rate":"0/0","r_frame_rate":"25/1"}],"format":{"duration":"4.0"}}`,
			want:  100,
		},
		{
			name:    "no video",
			probe:   `{"streams":[{"codec_type":"audio","nb_frames":"10"}]}`,
			wantErr: true,
		},
		{
			name:    "garbage",
			probe:   `not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := frameCountFromProbe(tt.probe)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFFmpegArgs(t *testing.T) {
	assert.Equal(t, "gte(n,42)", selectExpr(42))
	args := frameOutputArgs()
	assert.Equal(t, "png", args["vcodec"])
	assert.Equal(t, 1, args["vframes"])
}

func TestFFmpegOpenMissingFile(t *testing.T) {
	_, err := NewFFmpegDecoder().Open(context.Background(), filepath.Join(t.TempDir(), "none.mp4"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRate(t *testing.T) {
	assert.InDelta(t, 29.97, parseRate("30000/1001"), 0.001)
	assert.Equal(t, 25.0, parseRate("25"))
	assert.Equal(t, 0.0, parseRate("0/0"))
	assert.Equal(t, 0.0, parseRate(""))
}
