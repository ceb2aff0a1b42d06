package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegDecoder counts frames with ffprobe and pulls single frames through
// an ffmpeg select filter piped out as PNG.
type FFmpegDecoder struct{}

func NewFFmpegDecoder() *FFmpegDecoder {
	return &FFmpegDecoder{}
}

func (d *FFmpegDecoder) Open(ctx context.Context, path string) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	n, err := frameCountFromProbe(out)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	return &ffmpegCapture{path: path, frames: n}, nil
}

type ffmpegCapture struct {
	path   string
	frames int
}

func (c *ffmpegCapture) FrameCount() int {
	return c.frames
}

func (c *ffmpegCapture) Frame(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= c.frames {
		return nil, fmt.Errorf("%w: index %d outside [0, %d)", ErrNoFrame, index, c.frames)
	}

	var stdout, stderr bytes.Buffer
	err := ffmpeg.Input(c.path).
		Filter("select", ffmpeg.Args{selectExpr(index)}).
		Output("pipe:", frameOutputArgs()).
		WithOutput(&stdout).
		WithErrorOutput(&stderr).
		Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame %d: %w: %s", index, err, lastLine(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, ErrNoFrame
	}

	return png.Decode(&stdout)
}

func (c *ffmpegCapture) Close() error {
	return nil
}

func selectExpr(index int) string {
	return fmt.Sprintf("gte(n,%d)", index)
}

func frameOutputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{"vframes": 1, "format": "image2", "vcodec": "png"}
}

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		NbFrames     string `json:"nb_frames"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// frameCountFromProbe prefers the container's nb_frames and falls back to
// duration * frame rate for formats that do not record it.
func frameCountFromProbe(data string) (int, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}

	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
			return n, nil
		}

		duration := s.Duration
		if duration == "" || duration == "N/A" {
			duration = p.Format.Duration
		}
		d, err := strconv.ParseFloat(duration, 64)
		if err != nil {
			return 0, fmt.Errorf("no frame count or duration for video stream")
		}
		rate := parseRate(s.AvgFrameRate)
		if rate == 0 {
			rate = parseRate(s.RFrameRate)
		}
		if rate == 0 {
			return 0, fmt.Errorf("no frame rate for video stream")
		}
		return int(math.Round(d * rate)), nil
	}
	return 0, fmt.Errorf("no video stream")
}

func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	dv, err := strconv.ParseFloat(den, 64)
	if err != nil || dv == 0 {
		return 0
	}
	return n / dv
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
