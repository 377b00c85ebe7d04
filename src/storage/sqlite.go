package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	_ "modernc.org/sqlite"
)

const maxRecentLimit = 1000

// -----------------------------------------------------------------------------

// SQLiteJournal keeps the session fetch journal in SQLite. The table is
// dropped and recreated on Initialize, so nothing outlives the process.
type SQLiteJournal struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLiteJournal(cfg *models.MConfig, log *logger.Logger) *SQLiteJournal {
	return &SQLiteJournal{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (d *SQLiteJournal) Initialize() error {
	dsn := d.Config.Storage.DBPath

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return helpers.NewDatabaseError("open sqlite journal", err)
	}
	// Fetch goroutines write concurrently; a single connection serialises them
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping sqlite journal", err)
	}
	d.DB = db

	if !strings.Contains(dsn, ":memory:") {
		if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
			d.Logger.Warning("Failed to set WAL mode: %v", err)
		}
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.recreateTables()
}

// -----------------------------------------------------------------------------

func (d *SQLiteJournal) recreateTables() error {
	if _, err := d.DB.Exec("DROP TABLE IF EXISTS fetch_journal"); err != nil {
		return helpers.NewDatabaseError("drop fetch_journal", err)
	}

	query := `
		CREATE TABLE fetch_journal (
			id TEXT PRIMARY KEY,
			generation INTEGER,
			ticker TEXT,
			series TEXT,
			status TEXT,
			reason TEXT,
			points INTEGER,
			duration_ms INTEGER,
			created_at INTEGER
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create fetch_journal", err)
	}
	if _, err := d.DB.Exec("CREATE INDEX idx_fetch_journal_created ON fetch_journal (created_at)"); err != nil {
		return helpers.NewDatabaseError("index fetch_journal", err)
	}

	d.Logger.Info("SQLite journal ready at %s", d.Config.Storage.DBPath)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteJournal) Record(rec models.MFetchRecord) error {
	if d.DB == nil {
		return helpers.NewDatabaseError("journal not initialized", nil)
	}

	_, err := d.DB.Exec(
		`INSERT INTO fetch_journal
			(id, generation, ticker, series, status, reason, points, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, int64(rec.Generation), rec.Ticker, rec.Series, string(rec.Status),
		rec.Reason, rec.Points, rec.DurationMs, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("insert fetch record %s", rec.ID), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteJournal) Recent(limit int) ([]models.MFetchRecord, error) {
	if d.DB == nil {
		return nil, helpers.NewDatabaseError("journal not initialized", nil)
	}

	rows, err := d.DB.Query(
		`SELECT id, generation, ticker, series, status, reason, points, duration_ms, created_at
		FROM fetch_journal
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, helpers.NewDatabaseError("query fetch_journal", err)
	}
	defer rows.Close()

	records := make([]models.MFetchRecord, 0)
	for rows.Next() {
		var rec models.MFetchRecord
		var generation, createdAt int64
		var status string
		if err := rows.Scan(&rec.ID, &generation, &rec.Ticker, &rec.Series, &status,
			&rec.Reason, &rec.Points, &rec.DurationMs, &createdAt); err != nil {
			return nil, helpers.NewDatabaseError("scan fetch record", err)
		}
		rec.Generation = uint64(generation)
		rec.Status = models.FetchStatus(status)
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewDatabaseError("iterate fetch_journal", err)
	}
	return records, nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteJournal) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}
