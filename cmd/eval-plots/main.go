package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ivlev/datasquash/internal/config"
	"github.com/ivlev/datasquash/internal/evalplot"
	"github.com/ivlev/datasquash/internal/logger"
)

func main() {
	configPtr := flag.String("config", "", "YAML config file")
	modelsPtr := flag.String("models", "", "Directory with one subdirectory per trained model")
	sizesPtr := flag.String("sizes", "", "CSV with filename,size rows for the compressed videos")
	outputPtr := flag.String("output", "output_plots", "Output directory for plots")
	splitPtr := flag.String("split", "val", "Metrics split to plot")
	metricsPtr := flag.String("metrics", "", "Comma separated metric names (default: oks_voc.mAP,pck_voc.mAP,dist.avg,dist.p50)")
	logLevelPtr := flag.String("log-level", "info", "Log level")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] config: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "models":
			cfg.Plots.ModelsDir = *modelsPtr
		case "sizes":
			cfg.Plots.SizesFile = *sizesPtr
		case "output":
			cfg.Plots.OutputDir = *outputPtr
		case "split":
			cfg.Plots.Split = *splitPtr
		case "metrics":
			cfg.Plots.Metrics = strings.Split(*metricsPtr, ",")
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		}
	})

	if err := cfg.Plots.Validate(); err != nil {
		log.Fatalf("[-] config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("[-] logger: %v", err)
	}
	defer logg.Sync()

	if err := run(cfg.Plots, logg); err != nil {
		logg.Error("plotting failed", zap.Error(err))
		logg.Sync()
		os.Exit(1)
	}
}

func run(pc config.PlotsConfig, logg *zap.Logger) error {
	sizes, err := evalplot.LoadSizes(pc.SizesFile)
	if err != nil {
		return err
	}
	dirs, err := evalplot.ListModelDirs(pc.ModelsDir)
	if err != nil {
		return err
	}
	models, err := evalplot.Collect(dirs, sizes, pc.Split)
	if err != nil {
		return err
	}
	logg.Info("models loaded", zap.Int("count", len(models)), zap.String("split", pc.Split))

	for _, axis := range pc.XAxes {
		paths, err := evalplot.Plot(models, pc.Metrics, axis, pc.OutputDir, pc.Width, pc.Height)
		if err != nil {
			return err
		}
		for _, p := range paths {
			logg.Info("plot saved", zap.String("path", p))
		}
	}
	return nil
}
