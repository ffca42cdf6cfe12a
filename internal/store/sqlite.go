package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the seen set in a SQLite table.
type SQLiteStore struct {
	db   *sqlx.DB
	path string
}

// NewSQLiteStore opens a SQLite database and runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite:" + s.path }

func (s *SQLiteStore) Load(ctx context.Context) (*Set, LoadStatus, error) {
	var links []string
	if err := s.db.SelectContext(ctx, &links, "SELECT link FROM seen_links"); err != nil {
		return NewSet(), LoadCorrupt, fmt.Errorf("load seen links: %w", err)
	}
	if len(links) == 0 {
		return NewSet(), LoadMissing, nil
	}
	return NewSet(links...), LoadOK, nil
}

// Save inserts the links added to set since it was loaded.
func (s *SQLiteStore) Save(ctx context.Context, set *Set) error {
	added := set.Added()
	if len(added) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, link := range added {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO seen_links (link, seen_at) VALUES (?, ?)",
			link, now); err != nil {
			return fmt.Errorf("insert seen link %s: %w", link, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
