package poselabels

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var ErrVideoCount = errors.New("labels file must reference exactly one video")

// ResolveVideoPath interprets a bare file name relative to the labels file.
func ResolveVideoPath(labelsPath, video string) string {
	if filepath.Base(video) == video {
		return filepath.Join(filepath.Dir(labelsPath), video)
	}
	return video
}

// Relink rebinds a single-video labels file to newVideo and saves the
// result to outputPath. newVideo is stored exactly as given.
func Relink(inputPath, newVideo, outputPath string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	labels, err := Load(inputPath)
	if err != nil {
		return err
	}

	videos, err := labels.Videos()
	if err != nil {
		return err
	}
	if len(videos) != 1 {
		return fmt.Errorf("%w: %s has %d", ErrVideoCount, inputPath, len(videos))
	}

	oldVideo := videos[0].Filename

	resolved := ResolveVideoPath(inputPath, newVideo)
	if _, err := os.Stat(resolved); err != nil {
		log.Warn("new video not found, linking anyway", zap.String("video", resolved), zap.Error(err))
	}

	if err := labels.SetVideoFilename(0, newVideo); err != nil {
		return err
	}

	videos, err = labels.Videos()
	if err != nil {
		return err
	}
	if len(videos) != 1 || videos[0].Filename != newVideo {
		return fmt.Errorf("relink %s: video filename not updated", inputPath)
	}

	if err := labels.Save(outputPath); err != nil {
		return err
	}
	log.Info("labels relinked",
		zap.String("input", inputPath),
		zap.String("old_video", oldVideo),
		zap.String("video", newVideo),
		zap.String("output", outputPath))
	return nil
}
