package storage

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"seasonality-dashboard/src/helpers"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"github.com/lib/pq"
)

var schemaUnsafe = regexp.MustCompile(`[^a-z0-9_]+`)

// -----------------------------------------------------------------------------

// PostgresJournal stores the fetch journal in a per-application schema. Like
// the SQLite journal its table is recreated on every start.
type PostgresJournal struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewPostgresJournal(cfg *models.MConfig, log *logger.Logger) *PostgresJournal {
	return &PostgresJournal{
		Config: cfg,
		Schema: SchemaName(cfg.Name),
		Logger: log,
	}
}

// SchemaName derives a schema identifier from the application name.
func SchemaName(appName string) string {
	name := schemaUnsafe.ReplaceAllString(strings.ToLower(appName), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "dashboard"
	}
	return name
}

// -----------------------------------------------------------------------------

func (d *PostgresJournal) table() string {
	return pq.QuoteIdentifier(d.Schema) + ".fetch_journal"
}

// -----------------------------------------------------------------------------

func (d *PostgresJournal) Initialize() error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return helpers.NewDatabaseError("open postgres journal", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping postgres journal", err)
	}
	d.DB = db

	if _, err := d.DB.Exec("CREATE SCHEMA IF NOT EXISTS " + pq.QuoteIdentifier(d.Schema)); err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("create schema %s", d.Schema), err)
	}
	return d.recreateTables()
}

// -----------------------------------------------------------------------------

func (d *PostgresJournal) recreateTables() error {
	if _, err := d.DB.Exec("DROP TABLE IF EXISTS " + d.table()); err != nil {
		return helpers.NewDatabaseError("drop fetch_journal", err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE %s (
			id UUID PRIMARY KEY,
			generation BIGINT,
			ticker TEXT,
			series TEXT,
			status TEXT,
			reason TEXT,
			points INTEGER,
			duration_ms BIGINT,
			created_at TIMESTAMPTZ
		);
	`, d.table())
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create fetch_journal", err)
	}

	d.Logger.Info("Postgres journal ready in schema %s", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresJournal) Record(rec models.MFetchRecord) error {
	if d.DB == nil {
		return helpers.NewDatabaseError("journal not initialized", nil)
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(id, generation, ticker, series, status, reason, points, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, d.table())
	_, err := d.DB.Exec(query,
		rec.ID, int64(rec.Generation), rec.Ticker, rec.Series, string(rec.Status),
		rec.Reason, rec.Points, rec.DurationMs, rec.CreatedAt,
	)
	if err != nil {
		return helpers.NewDatabaseError(fmt.Sprintf("insert fetch record %s", rec.ID), err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresJournal) Recent(limit int) ([]models.MFetchRecord, error) {
	if d.DB == nil {
		return nil, helpers.NewDatabaseError("journal not initialized", nil)
	}

	query := fmt.Sprintf(`SELECT id, generation, ticker, series, status, reason, points, duration_ms, created_at
		FROM %s ORDER BY created_at DESC LIMIT $1`, d.table())
	rows, err := d.DB.Query(query, clampLimit(limit))
	if err != nil {
		return nil, helpers.NewDatabaseError("query fetch_journal", err)
	}
	defer rows.Close()

	records := make([]models.MFetchRecord, 0)
	for rows.Next() {
		var rec models.MFetchRecord
		var generation int64
		var status string
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &generation, &rec.Ticker, &rec.Series, &status,
			&rec.Reason, &rec.Points, &rec.DurationMs, &createdAt); err != nil {
			return nil, helpers.NewDatabaseError("scan fetch record", err)
		}
		rec.Generation = uint64(generation)
		rec.Status = models.FetchStatus(status)
		rec.CreatedAt = createdAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewDatabaseError("iterate fetch_journal", err)
	}
	return records, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresJournal) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
