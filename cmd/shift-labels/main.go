package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ivlev/datasquash/internal/config"
	"github.com/ivlev/datasquash/internal/labeltable"
	"github.com/ivlev/datasquash/internal/logger"
)

func main() {
	configPtr := flag.String("config", "", "YAML config file")
	inputPtr := flag.String("input", "", "Labels CSV to fix")
	outputPtr := flag.String("output", "", "Where to write the fixed CSV (default: overwrite input)")
	rowsPtr := flag.String("rows", "", "Comma separated 1-based data rows to shift")
	dyPtr := flag.Float64("dy", 0, "Offset added to every y coordinate of the selected rows")
	logLevelPtr := flag.String("log-level", "", "Log level")
	flag.Parse()

	if *inputPtr == "" || *rowsPtr == "" {
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

	rows, err := parseRows(*rowsPtr)
	if err != nil {
		log.Fatalf("[-] -rows: %v", err)
	}
	output := *outputPtr
	if output == "" {
		output = *inputPtr
	}

	table, err := labeltable.Load(*inputPtr)
	if err == nil {
		err = table.ShiftY(rows, *dyPtr)
	}
	if err == nil {
		err = table.Save(output)
	}
	if err != nil {
		logg.Error("shift failed", zap.Error(err))
		logg.Sync()
		os.Exit(1)
	}
	logg.Info("labels shifted", zap.Ints("rows", rows), zap.Float64("dy", *dyPtr), zap.String("output", output))
}

func parseRows(s string) ([]int, error) {
	var rows []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		rows = append(rows, n)
	}
	return rows, nil
}
