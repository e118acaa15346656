package recorder

import (
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists analysis history to a SQLite database.
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

	// WAL mode so external readers do not block the writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			code         TEXT NOT NULL,
			trade_date   TEXT NOT NULL,
			source       TEXT,
			close        REAL,
			pct_chg      REAL,
			ma5          REAL,
			ma10         REAL,
			ma20         REAL,
			volume_ratio REAL,
			total_score  REAL,
			advice       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_code_date ON analysis_history(code, trade_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordAnalysis appends one stock's outcome to the history table.
func (r *SQLiteRecorder) RecordAnalysis(rec *AnalysisRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO analysis_history
		(timestamp, code, trade_date, source, close, pct_chg, ma5, ma10, ma20, volume_ratio, total_score, advice)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Code, rec.TradeDate.Format("2006-01-02"), rec.Source,
		nullFloat(rec.Close), nullFloat(rec.PctChg),
		nullFloat(rec.MA5), nullFloat(rec.MA10), nullFloat(rec.MA20),
		nullFloat(rec.VolumeRatio), nullFloat(rec.TotalScore), rec.Advice,
	)
	return err
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// nullFloat maps NaN onto SQL NULL; SQLite has no NaN representation.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
