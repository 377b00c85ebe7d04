package main

import (
	"seasonality-dashboard/src/data_source/seasonality"
	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
	"seasonality-dashboard/src/network"
	"seasonality-dashboard/src/storage"
	"seasonality-dashboard/src/utils"
)

// -----------------------------------------------------------------------------

// setupJournal opens the fetch journal named by storage.db_type
func setupJournal(config *models.MConfig, appLogger *logger.Logger) (interfaces.IFetchJournal, error) {
	journal, err := storage.NewJournal(config, appLogger.Named("Journal"))
	if err != nil {
		appLogger.Error("Failed to init journal: %v", err)
		return nil, err
	}
	if err := journal.Initialize(); err != nil {
		appLogger.Error("Failed to migrate journal: %v", err)
		_ = journal.Close()
		return nil, err
	}
	return journal, nil
}

// -----------------------------------------------------------------------------

// setupFetcher builds the backend client shared by both series
func setupFetcher(config *models.MConfig, appLogger *logger.Logger) (interfaces.ISeriesFetcher, error) {
	networkManager, err := network.NewNetworkManager(config, appLogger.Named("NetworkManager"))
	if err != nil {
		appLogger.Error("Failed to init network: %v", err)
		return nil, err
	}

	appLogger.Info("Backend: seasonality=%s volume=%s", config.Backend.SeasonalityURL, config.Backend.VolumeURL)
	return seasonality.NewSeriesFetcher(networkManager, config.Backend.PassYearRange, appLogger.Named("Fetcher")), nil
}

// -----------------------------------------------------------------------------

// setupMarkets maps every catalog asset to its exchange calendar
func setupMarkets(config *models.MConfig, appLogger *logger.Logger) (*utils.MarketScheduler, error) {
	markets, err := utils.NewMarketScheduler(config.Catalog, config.Window.ReferenceDate, appLogger.Named("Markets"))
	if err != nil {
		appLogger.Error("Failed to init market calendars: %v", err)
		return nil, err
	}
	return markets, nil
}
