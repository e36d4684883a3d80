package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/pkg/filesystem"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// SQLiteStore persists plan runs in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.ekupkaran/history/history.db database.
// When the database cannot be opened the store degrades to a jsonl file.
func NewSQLiteStore() *SQLiteStore {
	path := filepath.Join(filesystem.UserHomeDir(), ".ekupkaran", "history", "history.db")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS plan_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		goal TEXT,
		action_count INTEGER,
		grounded INTEGER,
		model_profile TEXT,
		duration_ms INTEGER,
		success INTEGER,
		error TEXT
	);`)
	return err
}

// Save inserts a new run record.
func (s *SQLiteStore) Save(record domain.PlanRunRecord) error {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Save(record)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO plan_runs
		(timestamp, goal, action_count, grounded, model_profile, duration_ms, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(domain.TimestampFormat),
		record.Goal,
		record.ActionCount,
		boolToInt(record.Grounded),
		record.ModelProfile,
		record.DurationMS,
		boolToInt(record.Success),
		record.Error,
	)
	return err
}

// Records returns run entries, most recent first.
func (s *SQLiteStore) Records(limit int) ([]domain.PlanRunRecord, error) {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Records(limit)
	}
	query := `SELECT timestamp, goal, action_count, grounded, model_profile, duration_ms, success, error
		FROM plan_runs ORDER BY datetime(timestamp) DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.PlanRunRecord
	for rows.Next() {
		var rec domain.PlanRunRecord
		var ts string
		var grounded, success int
		if err := rows.Scan(&ts, &rec.Goal, &rec.ActionCount, &grounded, &rec.ModelProfile, &rec.DurationMS, &success, &rec.Error); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Grounded = grounded == 1
		rec.Success = success == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all run entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return (&FileStore{path: fallbackPath(s.path)}).Clear()
	}
	_, err := s.db.Exec("DELETE FROM plan_runs")
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
