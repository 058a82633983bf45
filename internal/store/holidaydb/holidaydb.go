package holidaydb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no holiday snapshot stored")

// DB keeps the last successfully fetched holiday lists in SQLite.
type DB struct{ sql *sql.DB }

// Snapshot is one stored holiday list.
type Snapshot struct {
	FetchedAt time.Time
	Source    string
	Dates     []string
}

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: ":memory:" databases are per connection
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS holiday_snapshots (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  fetched_at INTEGER NOT NULL,
	  source TEXT NOT NULL,
	  dates TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_hs_fetched ON holiday_snapshots(fetched_at);
	`)
	return err
}

// SaveSnapshot appends a holiday list.
func (d *DB) SaveSnapshot(ctx context.Context, s Snapshot) error {
	b, err := json.Marshal(s.Dates)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `INSERT INTO holiday_snapshots(fetched_at, source, dates) VALUES(?,?,?)`, s.FetchedAt.UnixMilli(), s.Source, string(b))
	return err
}

// LatestSnapshot returns the most recently saved list.
func (d *DB) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT fetched_at, source, dates FROM holiday_snapshots ORDER BY fetched_at DESC, id DESC LIMIT 1`)
	var ms int64
	var s Snapshot
	var raw string
	if err := row.Scan(&ms, &s.Source, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, err
	}
	if err := json.Unmarshal([]byte(raw), &s.Dates); err != nil {
		return Snapshot{}, err
	}
	s.FetchedAt = time.UnixMilli(ms).UTC()
	return s, nil
}

// Prune keeps only the newest keep snapshots.
func (d *DB) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM holiday_snapshots WHERE id NOT IN (SELECT id FROM holiday_snapshots ORDER BY fetched_at DESC, id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of stored snapshots.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM holiday_snapshots`).Scan(&n)
	return n, err
}
