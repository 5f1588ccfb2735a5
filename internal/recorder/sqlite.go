package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"EtfRadar/internal/model"
)

// SQLiteRecorder persists one history row per refreshed ticker.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_rows (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id          TEXT NOT NULL,
			requested_at      INTEGER NOT NULL,
			ticker            TEXT NOT NULL,
			sector            TEXT,
			recommended_rsi   INTEGER,
			status            TEXT NOT NULL,
			rsi14             REAL,
			rsi_deviation_pct REAL,
			price             REAL,
			change_pct_1d     REAL,
			price_1y_ago      REAL,
			return_1y_pct     REAL,
			volume            REAL,
			error             TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_rows_ts ON refresh_rows(requested_at)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_rows_ticker ON refresh_rows(ticker)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordBatch writes every row of a refresh in one transaction.
func (r *SQLiteRecorder) RecordBatch(batch *model.BatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO refresh_rows
		(batch_id, requested_at, ticker, sector, recommended_rsi, status,
		 rsi14, rsi_deviation_pct, price, change_pct_1d, price_1y_ago,
		 return_1y_pct, volume, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	ts := batch.RequestedAt.Unix()
	for _, row := range batch.Rows {
		if _, err := stmt.Exec(
			batch.BatchID, ts, row.Ticker, row.Sector, nullInt(row.RecommendedRSI), string(row.Status),
			nullFloat(row.RSI14), nullFloat(row.RSIDeviationPct), nullFloat(row.Price),
			nullFloat(row.ChangePct1D), nullFloat(row.Price1YAgo), nullFloat(row.Return1YPct),
			nullFloat(row.Volume), nullString(row.Error),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func nullFloat(f model.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Value
}

func nullInt(i model.Int) any {
	if !i.Valid {
		return nil
	}
	return i.Value
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
