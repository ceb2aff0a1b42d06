package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ivlev/datasquash/internal/config"
	"github.com/ivlev/datasquash/internal/logger"
	"github.com/ivlev/datasquash/internal/poselabels"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <input_labels> <new_video_path> <output_labels>\n", os.Args[0])
		flag.PrintDefaults()
	}
	configPtr := flag.String("config", "", "YAML config file")
	logLevelPtr := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] config: %v", err)
	}
	if *logLevelPtr != "" {
		cfg.LogLevel = *logLevelPtr
	}

	logg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("[-] logger: %v", err)
	}
	defer logg.Sync()

	input, newVideo, output := flag.Arg(0), flag.Arg(1), flag.Arg(2)
	if err := poselabels.Relink(input, newVideo, output, logg); err != nil {
		logg.Error("relink failed", zap.Error(err))
		logg.Sync()
		os.Exit(1)
	}
}
