// Package snapshot archives every published document in a SQL database so the
// latest leaderboard survives restarts and past runs can be inspected.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/skillboard/internal/adapters/sink"
	"github.com/okian/skillboard/internal/domain/model"

	_ "github.com/lib/pq"  // Postgres driver.
	_ "modernc.org/sqlite" // SQLite driver.
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Snapshot is one archived document.
type Snapshot struct {
	ID        int64
	Name      string
	RunID     string
	WrittenAt time.Time
	Body      []byte
}

// Records decodes a skills document.
func (s Snapshot) Records() ([]model.Record, error) {
	var out []model.Record
	if err := json.Unmarshal(s.Body, &out); err != nil {
		return nil, fmt.Errorf("decoding snapshot %d: %w", s.ID, err)
	}
	return out, nil
}

// Teams decodes a team directory document.
func (s Snapshot) Teams() ([]model.TeamInfo, error) {
	var out []model.TeamInfo
	if err := json.Unmarshal(s.Body, &out); err != nil {
		return nil, fmt.Errorf("decoding snapshot %d: %w", s.ID, err)
	}
	return out, nil
}

// Store wraps SQL access for snapshots. It also serves as a sink.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to the database and applies migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, err
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one connection keeps :memory: databases and writers consistent
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s: %w", driver, err)
	}

	s := &Store{db: db, driver: driver, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	idCol := "id INTEGER PRIMARY KEY"
	if s.driver == DriverPostgres {
		idCol = "id BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			` + idCol + `,
			name TEXT NOT NULL,
			run_id TEXT NOT NULL,
			written_at TEXT NOT NULL,
			body TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_name_id ON snapshots(name, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating snapshots: %w", err)
		}
	}
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Name implements sink.ResultSink.
func (s *Store) Name() string { return "sql" }

// Write appends v as a new snapshot of name, tagged with the run id from ctx.
func (s *Store) Write(ctx context.Context, name string, v any) error {
	body, err := sink.Encode(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO snapshots (name, run_id, written_at, body) VALUES (?, ?, ?, ?)`),
		name,
		sink.RunID(ctx),
		s.now().UTC().Format(time.RFC3339Nano),
		string(body),
	)
	if err != nil {
		return fmt.Errorf("%w: snapshot %s: %w", sink.ErrWrite, name, err)
	}
	return nil
}

// Latest returns the newest snapshot of name.
func (s *Store) Latest(ctx context.Context, name string) (Snapshot, error) {
	list, err := s.History(ctx, name, 1)
	if err != nil {
		return Snapshot{}, err
	}
	if len(list) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return list[0], nil
}

// History returns up to limit snapshots of name, newest first.
func (s *Store) History(ctx context.Context, name string, limit int) ([]Snapshot, error) {
	if limit < 1 {
		limit = 1
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, name, run_id, written_at, body FROM snapshots WHERE name = ? ORDER BY id DESC LIMIT ?`),
		name, limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var (
			snap      Snapshot
			writtenAt string
			body      string
		)
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.RunID, &writtenAt, &body); err != nil {
			return nil, err
		}
		if snap.WrittenAt, err = time.Parse(time.RFC3339Nano, writtenAt); err != nil {
			return nil, fmt.Errorf("parsing written_at %q: %w", writtenAt, err)
		}
		snap.Body = []byte(body)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return out, nil
}
