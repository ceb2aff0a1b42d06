package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivlev/datasquash/internal/config"
	"github.com/ivlev/datasquash/internal/engine"
	"github.com/ivlev/datasquash/internal/labeltable"
	"github.com/ivlev/datasquash/internal/logger"
	"github.com/ivlev/datasquash/internal/metrics"
	"github.com/ivlev/datasquash/internal/source"
	"github.com/ivlev/datasquash/internal/system"
)

var version = "dev"

func main() {
	system.InitResourceLimits()

	configPtr := flag.String("config", "", "YAML config file")
	projectPtr := flag.String("project", "", "Project directory with the labels CSV and the videos")
	labelsPtr := flag.String("labels", "", "Labels CSV inside the project (default: newest CollectedData*.csv)")
	extPtr := flag.String("ext", ".avi", "Video file extension")
	outputPtr := flag.String("output", "", "Output directory for frames (default: project directory)")
	decoderPtr := flag.String("decoder", "ffmpeg", "Decoder backend: ffmpeg, images, opencv (with -tags opencv)")
	workersPtr := flag.Int("workers", 1, "Videos extracted in parallel (0 = number of CPUs)")
	flatPtr := flag.Bool("flat", false, "Write all frames to the output directory instead of one subdirectory per video")
	substringPtr := flag.Bool("match-substring", false, "Assign rows to every video whose name is contained in the row identifier")
	progressPtr := flag.Bool("progress", false, "Show a progress bar per video")
	reportPtr := flag.String("report", "", "Write a YAML run report to this path")
	metricsPtr := flag.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	statsPtr := flag.Bool("stats", false, "Print a performance report at the end")
	logLevelPtr := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] config: %v", err)
	}
	cfg.BuildVersion = version

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "project":
			cfg.Extract.ProjectDir = *projectPtr
		case "labels":
			cfg.Extract.LabelsFile = *labelsPtr
		case "ext":
			cfg.Extract.VideoExt = *extPtr
		case "output":
			cfg.Extract.OutputDir = *outputPtr
		case "decoder":
			cfg.Extract.Decoder = *decoderPtr
		case "workers":
			cfg.Extract.Workers = *workersPtr
		case "flat":
			cfg.Extract.PerVideoDirs = !*flatPtr
		case "match-substring":
			cfg.Extract.MatchSubstring = *substringPtr
		case "progress":
			cfg.Extract.Progress = *progressPtr
		case "report":
			cfg.Extract.ReportPath = *reportPtr
		case "metrics-file":
			cfg.MetricsFile = *metricsPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		}
	})

	if err := cfg.Extract.Validate(); err != nil {
		log.Fatalf("[-] config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("[-] logger: %v", err)
	}
	defer logg.Sync()

	runID := uuid.NewString()
	logg = logg.With(zap.String("run_id", runID))

	if err := run(cfg, runID, logg); err != nil {
		logg.Error("extraction failed", zap.Error(err))
		logg.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, runID string, logg *zap.Logger) error {
	ec := cfg.Extract

	labelsFile := ec.LabelsFile
	if labelsFile == "" {
		latest, err := system.FindLatest(ec.ProjectDir, "CollectedData", ".csv")
		if err != nil {
			return err
		}
		labelsFile = filepath.Base(latest)
		logg.Info("labels file selected", zap.String("path", latest))
	}

	table, err := labeltable.Load(filepath.Join(ec.ProjectDir, labelsFile))
	if err != nil {
		return err
	}
	mapper := labeltable.Mapper{ProjectDir: ec.ProjectDir, VideoExt: ec.VideoExt, MatchSubstring: ec.MatchSubstring}
	vfm, err := mapper.Map(table)
	if err != nil {
		return err
	}

	decoder, err := source.NewDecoder(ec.Decoder)
	if err != nil {
		return err
	}

	outputDir := ec.OutputDir
	if outputDir == "" {
		outputDir = ec.ProjectDir
	}
	workers := ec.Workers
	if workers == 0 {
		workers = system.CPUCount()
	}

	logg.Info("starting extraction",
		zap.String("labels", labelsFile),
		zap.Int("videos", vfm.Len()),
		zap.String("decoder", ec.Decoder),
		zap.Int("workers", workers),
		zap.String("output", outputDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	extractor := engine.NewExtractor(decoder, engine.Options{
		OutputDir:    outputDir,
		PerVideoDirs: ec.PerVideoDirs,
		Workers:      workers,
		Progress:     ec.Progress,
	}, logg, m)

	start := time.Now()
	report, runErr := extractor.Run(ctx, vfm)
	elapsed := time.Since(start)

	if report != nil {
		report.RunID = runID
		if ec.ReportPath != "" {
			if err := engine.WriteReport(report, ec.ReportPath); err != nil {
				logg.Warn("write report", zap.Error(err))
			}
		}
		logg.Info("extraction finished",
			zap.Int("frames_saved", report.SavedCount()),
			zap.Strings("skipped_videos", report.Skipped()),
			zap.Duration("elapsed", elapsed))

		if cfg.ShowStats {
			stats := system.CollectStats(system.Stats{
				Build:   cfg.BuildVersion,
				Elapsed: elapsed,
				Videos:  len(report.Videos),
				Skipped: len(report.Skipped()),
				Frames:  report.SavedCount(),
				Workers: workers,
			})
			fmt.Print(stats.Report())
			if cfg.BenchmarkLog != "" {
				if err := stats.AppendLog(cfg.BenchmarkLog); err != nil {
					logg.Warn("write benchmark log", zap.Error(err))
				}
			}
		}
	}

	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			logg.Warn("write metrics", zap.Error(err))
		}
	}

	return runErr
}
