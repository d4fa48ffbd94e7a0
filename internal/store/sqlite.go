package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/models"
)

const dateLayout = "2006-01-02"

var _ RunStore = (*SQLiteStore)(nil)

// SQLiteStore implements RunStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the history database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", errors.ErrDatabaseError, err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", errors.ErrDatabaseError, err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- One row per analysis run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		evaluation_date TEXT NOT NULL,
		spot REAL NOT NULL,
		total_exposure REAL NOT NULL,
		flip_found INTEGER NOT NULL DEFAULT 0,
		flip_level REAL,
		pair_count INTEGER NOT NULL,
		move_bps REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Strike table captured with each run
	CREATE TABLE IF NOT EXISTS run_strikes (
		run_id INTEGER NOT NULL,
		strike TEXT NOT NULL,
		call_exposure REAL NOT NULL,
		put_exposure REAL NOT NULL,
		net_exposure REAL NOT NULL,
		call_open_interest REAL NOT NULL,
		put_open_interest REAL NOT NULL,
		PRIMARY KEY (run_id, strike),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_ticker_date ON runs(ticker, evaluation_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun saves a report summary and its strike table in one transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, report *models.Report, moveBps float64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var flipLevel sql.NullFloat64
	if report.Flip.Found {
		flipLevel = sql.NullFloat64{Float64: report.Flip.Level, Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (ticker, evaluation_date, spot, total_exposure, flip_found, flip_level, pair_count, move_bps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.Ticker, report.EvaluationDate.Format(dateLayout), report.Spot, report.TotalExposure,
		boolToInt(report.Flip.Found), flipLevel, report.PairCount, moveBps, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_strikes (run_id, strike, call_exposure, put_exposure, net_exposure, call_open_interest, put_open_interest)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, st := range report.Strikes {
		if _, err := stmt.ExecContext(ctx, id, st.Strike.String(), st.CallExposure, st.PutExposure,
			st.NetExposure, st.CallOpenInterest, st.PutOpenInterest); err != nil {
			return 0, fmt.Errorf("failed to insert strike %s: %w", st.Strike, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// ListRuns retrieves runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := "SELECT id, ticker, evaluation_date, spot, total_exposure, flip_found, flip_level, pair_count, move_bps, created_at FROM runs WHERE 1=1"
	args := []interface{}{}

	if filter.Ticker != "" {
		query += " AND ticker = ?"
		args = append(args, strings.ToUpper(filter.Ticker))
	}
	if !filter.StartDate.IsZero() {
		query += " AND evaluation_date >= ?"
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if !filter.EndDate.IsZero() {
		query += " AND evaluation_date <= ?"
		args = append(args, filter.EndDate.Format(dateLayout))
	}

	query += " ORDER BY evaluation_date DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var evalDate string
		var flipFound int
		var flipLevel sql.NullFloat64

		if err := rows.Scan(&r.ID, &r.Ticker, &evalDate, &r.Spot, &r.TotalExposure, &flipFound, &flipLevel, &r.PairCount, &r.MoveBps, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		r.EvaluationDate, err = time.Parse(dateLayout, evalDate)
		if err != nil {
			return nil, fmt.Errorf("run %d: bad evaluation date %q: %w", r.ID, evalDate, err)
		}
		r.FlipFound = flipFound == 1
		r.FlipLevel = flipLevel.Float64
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// RunStrikes retrieves the strike table of a run in strike order.
func (s *SQLiteStore) RunStrikes(ctx context.Context, runID int64) ([]models.StrikeExposure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT strike, call_exposure, put_exposure, net_exposure, call_open_interest, put_open_interest
		FROM run_strikes WHERE run_id = ?
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query strikes: %w", err)
	}
	defer rows.Close()

	var out []models.StrikeExposure
	for rows.Next() {
		var st models.StrikeExposure
		var strike string
		if err := rows.Scan(&strike, &st.CallExposure, &st.PutExposure, &st.NetExposure, &st.CallOpenInterest, &st.PutOpenInterest); err != nil {
			return nil, fmt.Errorf("failed to scan strike: %w", err)
		}
		st.Strike, err = decimal.NewFromString(strike)
		if err != nil {
			return nil, fmt.Errorf("run %d: bad strike %q: %w", runID, strike, err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Strikes are stored as text, so order numerically here.
	sort.Slice(out, func(i, j int) bool { return out[i].Strike.LessThan(out[j].Strike) })
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
