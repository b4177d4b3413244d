package main

import (
	"flag"
	"fmt"
	"os"

	"stock-analyzer/src/config"
	"stock-analyzer/src/interfaces"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/storage"
)

// -----------------------------------------------------------------------------
// Validation harness for the analyzer core.
//
// No hardcoded data: prices come from a CSV/TSV file (-prices) or a stored
// dataset (-dataset, resolved through the configured store). Every check
// compares the optimized algorithms against brute-force recomputation and
// the exit code reports overall PASS/FAIL.
// -----------------------------------------------------------------------------

func main() {
	pricesPath := flag.String("prices", "", "path to a CSV/TSV price file")
	datasetName := flag.String("dataset", "", "name of a stored dataset to validate against")
	configPath := flag.String("config", "config/default.yaml", "path to config file (used with -dataset)")
	windowSize := flag.Int("window", 0, "window size for the sliding-window checks (0 = length/4, minimum 1)")
	flag.Parse()

	if *pricesPath == "" && *datasetName == "" {
		fmt.Fprintln(os.Stderr, "usage: harness -prices <file> | -dataset <name> [-config <file>] [-window <n>]")
		os.Exit(2)
	}

	prices, err := loadPrices(*pricesPath, *datasetName, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Loaded %d prices\n", len(prices))

	w := *windowSize
	if w <= 0 {
		w = len(prices) / 4
		if w < 1 {
			w = 1
		}
	}
	if w > len(prices) {
		w = len(prices)
	}

	failures := 0
	failures += validateSpans(prices)
	failures += validateTree(prices)
	failures += validateWindows(prices, w)

	if failures > 0 {
		fmt.Printf("\nFAIL: %d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nPASS: all checks passed")
}

// -----------------------------------------------------------------------------

// loadPrices reads the series from a file, or from the configured dataset
// store when -dataset is given.
func loadPrices(pricesPath, datasetName, configPath string) ([]float64, error) {
	if pricesPath != "" {
		return storage.ReadPricesFromFile(pricesPath)
	}

	conf, err := config.NewConfig(configPath)
	if err != nil {
		return nil, err
	}

	harnessLogger := logger.NewLogger(conf.LogLevel, "Harness")

	var store interfaces.IDatasetStore
	switch conf.Storage.DBType {
	case "postgres":
		store, err = storage.NewPostgresStore(conf.MConfig, harnessLogger)
	default:
		store, err = storage.NewSQLiteStore(conf.MConfig, harnessLogger)
	}
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(); err != nil {
		return nil, err
	}
	defer store.Close()

	ds, err := store.LoadDataset(datasetName)
	if err != nil {
		return nil, err
	}
	return ds.Prices, nil
}
