package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-analyzer/src/analysis"
	"stock-analyzer/src/config"
	"stock-analyzer/src/helpers"
	"stock-analyzer/src/interfaces"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/server"
	"stock-analyzer/src/storage"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)

	// Setup dataset store
	var store interfaces.IDatasetStore

	switch conf.Storage.DBType {
	case "postgres":
		store, err = storage.NewPostgresStore(conf.MConfig, appLogger)
	default:
		// Default to SQLite
		store, err = storage.NewSQLiteStore(conf.MConfig, appLogger)
	}

	if err != nil {
		appLogger.Critical("Failed to init dataset store: %v", err)
	}
	if err := store.Initialize(); err != nil {
		appLogger.Critical("Failed to migrate dataset store: %v", err)
	}
	defer store.Close()

	// Memory budget for retained analysis results
	budgetMB := conf.Analysis.MemoryBudgetMB
	if budgetMB == 0 {
		budgetMB = helpers.GetRecommendedMemoryLimit(appLogger.Warning)
	}
	appLogger.Info("Memory budget set to %d MB", budgetMB)

	registry := analysis.NewHandleRegistry(budgetMB, appLogger)
	facade := analysis.NewAnalysisFacade(conf.MConfig, appLogger)

	// Start server
	var srv interfaces.IDataExchanger = server.NewAPIServer(conf.MConfig, appLogger, facade, registry, store)

	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}()

	appLogger.Info("Analyzer ready: max series length %d, default window %d",
		conf.Analysis.MaxSeriesLength, conf.Analysis.DefaultWindowSize)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	srv.Stop()
}
