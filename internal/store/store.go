// Package store persists pomo state on the local device: the work list,
// the break list, saved templates and the theme as independent JSON
// documents keyed in a SQLite database, plus a history of timer phases.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

const (
	dataDir = ".pomo"
	dbFile  = "pomo.db"
)

// ErrNotFound is returned when a key, template or record does not exist
var ErrNotFound = errors.New("not found")

// Store wraps the database connection
type Store struct {
	conn    *sql.DB
	baseDir string
	logger  *slog.Logger
}

// DataDir returns the directory pomo keeps its files in
func DataDir(baseDir string) string {
	return filepath.Join(baseDir, dataDir)
}

// Path returns the database path for baseDir
func Path(baseDir string) string {
	return filepath.Join(baseDir, dataDir, dbFile)
}

// Open opens (creating if needed) the store under baseDir and runs any
// pending migrations
func Open(baseDir string) (*Store, error) {
	dbPath := Path(baseDir)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL lets the dashboard read while a CLI invocation writes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	conn.Exec("PRAGMA synchronous=NORMAL")

	s := &Store{conn: conn, baseDir: baseDir, logger: slog.Default()}

	if err := s.withWriteLock(func() error {
		if _, err := conn.Exec(schema); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		_, err := s.runMigrationsInternal()
		return err
	}); err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

// SetLogger replaces the logger used for load fallbacks
func (s *Store) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Close closes the database
func (s *Store) Close() error {
	return s.conn.Close()
}

// BaseDir returns the directory the store was opened in
func (s *Store) BaseDir() string {
	return s.baseDir
}

// withWriteLock runs fn while holding the cross-process write lock
func (s *Store) withWriteLock(fn func() error) error {
	locker := newWriteLocker(s.baseDir)
	if err := locker.acquire(defaultTimeout); err != nil {
		return err
	}
	defer locker.release()
	return fn()
}

// SchemaVersion returns the version recorded in the database (0 if unset)
func (s *Store) SchemaVersion() (int, error) {
	var v string
	err := s.conn.QueryRow("SELECT value FROM schema_info WHERE key = 'version'").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (s *Store) setSchemaVersion(version int) error {
	_, err := s.conn.Exec(`INSERT OR REPLACE INTO schema_info (key, value) VALUES ('version', ?)`,
		strconv.Itoa(version))
	return err
}

// runMigrationsInternal applies pending migrations; the caller holds the lock
func (s *Store) runMigrationsInternal() (int, error) {
	current, err := s.SchemaVersion()
	if err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	if current == 0 {
		// fresh database: schema is already current
		return 0, s.setSchemaVersion(SchemaVersion)
	}
	if current > SchemaVersion {
		return 0, fmt.Errorf("database schema version %d is newer than supported (%d)", current, SchemaVersion)
	}

	run := 0
	for _, m := range Migrations {
		if m.Version <= current {
			continue
		}
		if _, err := s.conn.Exec(m.SQL); err != nil {
			return run, fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if err := s.setSchemaVersion(m.Version); err != nil {
			return run, fmt.Errorf("set version %d: %w", m.Version, err)
		}
		s.logger.Info("applied migration", "version", m.Version, "description", m.Description)
		run++
	}
	return run, nil
}
