package engine

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/datasquash/internal/labeltable"
	"github.com/ivlev/datasquash/internal/metrics"
	"github.com/ivlev/datasquash/internal/source"
)

type Options struct {
	OutputDir string
	// PerVideoDirs writes each video's frames to OutputDir/<video stem>/.
	// Without it every frame lands directly in OutputDir.
	PerVideoDirs bool
	Workers      int
	Progress     bool
}

type Extractor struct {
	decoder source.Decoder
	opts    Options
	log     *zap.Logger
	metrics *metrics.Metrics

	writeImage func(path string, img image.Image) error
}

func NewExtractor(decoder source.Decoder, opts Options, log *zap.Logger, m *metrics.Metrics) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Extractor{
		decoder:    decoder,
		opts:       opts,
		log:        log,
		metrics:    m,
		writeImage: writePNG,
	}
}

// FrameFileName zero-pads idx to the number of digits in frameCount.
func FrameFileName(idx, frameCount int) string {
	width := len(strconv.Itoa(frameCount))
	return fmt.Sprintf("img%0*d.png", width, idx)
}

// Run extracts every mapped frame. Videos that fail to open are skipped;
// the first frame that fails to decode stops the run and is returned as a
// *DecodeError together with the partial report.
func (e *Extractor) Run(ctx context.Context, vfm *labeltable.VideoFrameMap) (*Report, error) {
	start := time.Now()

	if err := os.MkdirAll(e.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	entries := vfm.Entries()
	if err := e.checkVideoDirs(entries); err != nil {
		return nil, err
	}
	report := &Report{
		OutputDir: e.opts.OutputDir,
		Started:   start,
		Videos:    make([]VideoReport, len(entries)),
	}

	workers := e.opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > 1 && !e.opts.PerVideoDirs {
		e.log.Warn("flat output layout, extracting videos sequentially", zap.Int("workers", workers))
		workers = 1
	}

	var err error
	if workers == 1 {
		for i, entry := range entries {
			report.Videos[i], err = e.processVideo(ctx, entry)
			if err != nil {
				report.Videos = report.Videos[:i+1]
				break
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, entry := range entries {
			i, entry := i, entry
			g.Go(func() error {
				vr, err := e.processVideo(gctx, entry)
				report.Videos[i] = vr
				return err
			})
		}
		err = g.Wait()
	}

	report.Elapsed = time.Since(start)
	if err != nil {
		report.Error = err.Error()
	}
	return report, err
}

// videoDir keeps the directory part of the video id, so "s1/cam" and
// "s2/cam" land in different folders. Ids that would leave OutputDir
// fall back to the file stem.
func (e *Extractor) videoDir(entry labeltable.Entry) string {
	if !e.opts.PerVideoDirs {
		return e.opts.OutputDir
	}
	name := filepath.Clean(filepath.FromSlash(entry.Video))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if !filepath.IsLocal(name) {
		name = filepath.Base(name)
	}
	if name == "" || name == "." || !filepath.IsLocal(name) {
		base := filepath.Base(entry.Path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(e.opts.OutputDir, name)
}

func (e *Extractor) checkVideoDirs(entries []labeltable.Entry) error {
	if !e.opts.PerVideoDirs {
		return nil
	}
	owner := make(map[string]string, len(entries))
	for _, entry := range entries {
		dir := e.videoDir(entry)
		if prev, ok := owner[dir]; ok {
			return fmt.Errorf("videos %s and %s share output dir %s", prev, entry.Path, dir)
		}
		owner[dir] = entry.Path
	}
	return nil
}

func (e *Extractor) processVideo(ctx context.Context, entry labeltable.Entry) (VideoReport, error) {
	vr := VideoReport{Video: entry.Video, Path: entry.Path, Requested: len(entry.Frames)}
	log := e.log.With(zap.String("video", entry.Path))

	if err := ctx.Err(); err != nil {
		vr.Canceled = true
		return vr, err
	}

	capture, err := e.decoder.Open(ctx, entry.Path)
	if err != nil {
		oe := &OpenError{Video: entry.Path, Err: err}
		vr.OpenError = oe.Error()
		e.metrics.VideosSkipped.Inc()
		log.Info("error opening video, skipping", zap.Error(err))
		return vr, nil
	}
	defer func() {
		if err := capture.Close(); err != nil {
			log.Warn("close video", zap.Error(err))
		}
	}()

	vr.Opened = true
	vr.FrameCount = capture.FrameCount()
	e.metrics.VideosOpened.Inc()
	log.Info("processing video",
		zap.Int("frame_count", vr.FrameCount),
		zap.Int("requested", vr.Requested))

	dir := e.videoDir(entry)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return vr, fmt.Errorf("create output dir for %s: %w", entry.Path, err)
	}
	vr.OutputDir = dir

	bar := newProgress(e.opts.Progress, filepath.Base(entry.Path), len(entry.Frames))
	defer bar.Finish()

	for _, idx := range entry.Frames {
		if err := ctx.Err(); err != nil {
			vr.Canceled = true
			return vr, err
		}

		img, err := e.decodeFrame(ctx, capture, idx, vr.FrameCount)
		if err != nil {
			e.metrics.DecodeFailures.Inc()
			return vr, &DecodeError{Video: entry.Path, Frame: idx, Err: err}
		}

		path := filepath.Join(dir, FrameFileName(idx, vr.FrameCount))
		if err := e.writeImage(path, img); err != nil {
			we := &WriteError{Video: entry.Path, Frame: idx, Path: path, Err: err}
			vr.WriteFailures = append(vr.WriteFailures, FrameFailure{Frame: idx, Path: path, Error: err.Error()})
			e.metrics.WriteFailures.Inc()
			log.Info("error saving frame, skipping", zap.Int("frame", idx), zap.Error(we))
			bar.Increment()
			continue
		}

		vr.Saved = append(vr.Saved, path)
		e.metrics.FramesSaved.Inc()
		log.Info("frame saved", zap.Int("frame", idx), zap.String("path", path))
		bar.Increment()
	}

	return vr, nil
}

func (e *Extractor) decodeFrame(ctx context.Context, capture source.Capture, idx, frameCount int) (image.Image, error) {
	if idx < 0 || idx >= frameCount {
		return nil, fmt.Errorf("%w: index %d outside [0, %d)", source.ErrNoFrame, idx, frameCount)
	}

	start := time.Now()
	img, err := capture.Frame(ctx, idx)
	e.metrics.DecodeSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, source.ErrNoFrame
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
