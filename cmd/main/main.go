package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"seasonality-dashboard/src/config"
	"seasonality-dashboard/src/controller"
	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/server"
)

// -----------------------------------------------------------------------------

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens.
func run() int {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return 1
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	// 1. Journal
	journal, err := setupJournal(conf.MConfig, appLogger)
	if err != nil {
		return 1
	}
	defer func() {
		if err := journal.Close(); err != nil {
			appLogger.Error("Failed to close journal: %v", err)
		}
	}()

	// 2. Backend access
	fetcher, err := setupFetcher(conf.MConfig, appLogger)
	if err != nil {
		return 1
	}

	markets, err := setupMarkets(conf.MConfig, appLogger)
	if err != nil {
		return 1
	}

	// 3. Controller
	ctrl := controller.NewController(conf.MConfig, fetcher, journal, markets, appLogger.Named("Controller"))
	var srv interfaces.IDataExchanger = server.NewDashboardServer(conf.MConfig, ctrl, journal, appLogger.Named("Server"))
	ctrl.OnChange(srv.Broadcast)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		ctrl.Run(ctx)
		close(loopDone)
	}()
	defer func() {
		stop()
		<-loopDone
	}()

	// 4. Initial selection
	if gen, err := ctrl.Initialize(conf.Selection.DefaultTicker); err != nil {
		if helpers.IsValidationError(err) {
			appLogger.Info("Waiting for a selection: %v", err)
		} else {
			appLogger.Error("Initial submit failed: %v", err)
		}
	} else {
		appLogger.Info("Initial submit started generation %d", gen)
	}

	// 5. Servers and refresh
	errs := helpers.NewErrorHandler(appLogger.Named("Errors"))
	running, err := startServers(conf.MConfig, srv, ctrl, markets, errs, stop, appLogger)
	if err != nil {
		appLogger.Error("Failed to start: %v", err)
		return 1
	}

	<-ctx.Done()
	appLogger.Info("Shutting down...")
	running.shutdown()

	if errs.ErrorCount() > 0 {
		return 1
	}
	appLogger.Info("Shutdown complete.")
	return 0
}
