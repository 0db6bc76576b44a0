package production

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/comalice/markovx"
)

// ErrNotFound is returned when a stored result does not exist.
var ErrNotFound = errors.New("result not found")

// Record describes a stored report without its payload.
type Record struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

// SQLiteStore keeps a history of reports in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_kind ON results(kind);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Save stores report and returns its generated ID.
func (s *SQLiteStore) Save(ctx context.Context, report markovx.Report) (string, error) {
	if err := report.Validate(); err != nil {
		return "", fmt.Errorf("report %q: %w", report.Name, err)
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}

	id := uuid.NewString()
	created := report.Timestamp
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, kind, name, version, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, report.Kind, report.Name, report.Version, string(payload), created.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	return id, nil
}

// Get loads the report stored under id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (markovx.Report, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return markovx.Report{}, fmt.Errorf("result %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return markovx.Report{}, fmt.Errorf("query result: %w", err)
	}

	var report markovx.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return markovx.Report{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return report, nil
}

// List returns stored records, newest first. An empty kind lists every kind.
func (s *SQLiteStore) List(ctx context.Context, kind string) ([]Record, error) {
	query := `SELECT id, kind, name, version, created_at FROM results`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var created int64
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.Name, &rec.Version, &created); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
