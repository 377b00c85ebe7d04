package storage

import (
	"fmt"

	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"
)

// NewJournal picks the journal backend named by storage.db_type.
func NewJournal(cfg *models.MConfig, log *logger.Logger) (interfaces.IFetchJournal, error) {
	switch cfg.Storage.DBType {
	case "postgres":
		return NewPostgresJournal(cfg, log), nil
	case "sqlite", "":
		return NewSQLiteJournal(cfg, log), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Storage.DBType)
	}
}
