package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	// Postgres driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the SQL backend.
type Config struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string

	// DSN is a file path for sqlite or a connection URL for postgres.
	DSN string
}

// ConfigFromEnv reads STUDYMENTOR_DB_DRIVER and STUDYMENTOR_DB_DSN.
// An empty DSN means the caller should resolve DefaultDBPath.
func ConfigFromEnv() Config {
	cfg := Config{Driver: DriverSQLite}
	if d := os.Getenv("STUDYMENTOR_DB_DRIVER"); d != "" {
		cfg.Driver = d
	}
	if dsn := os.Getenv("STUDYMENTOR_DB_DSN"); dsn != "" {
		cfg.DSN = dsn
	}
	return cfg
}

// Store owns the SQL connection and hands out repositories.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the configured database, applies sqlite pragmas when
// relevant, and creates the schema if it does not exist.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, driverName, err := resolveDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s DSN is empty", d)
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if d == dialectSQLite {
		// One writer keeps WAL happy and makes ":memory:" databases coherent.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SlotRepo returns a SlotRepo backed by the kv_slots table.
func (s *Store) SlotRepo() SlotRepo {
	return &sqlSlotRepo{db: s.db, dialect: s.dialect}
}

// EventRepo returns an EventRepo backed by the llm_events table.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, dialect: s.dialect}
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schemaFor(s.dialect) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", firstLine(stmt), err)
		}
	}
	return nil
}

type dialect string

const (
	dialectSQLite   dialect = DriverSQLite
	dialectPostgres dialect = DriverPostgres
)

func resolveDriver(name string) (dialect, string, error) {
	switch strings.ToLower(name) {
	case "", "sqlite", "sqlite3":
		return dialectSQLite, "sqlite", nil
	case "postgres", "postgresql", "pgx":
		return dialectPostgres, "pgx", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// rebind rewrites "?" placeholders into "$n" for postgres.
func (d dialect) rebind(query string) string {
	if d != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. STUDYMENTOR_DB environment variable
// 2. $XDG_DATA_HOME/studymentor/studymentor.db
// 3. ~/.local/share/studymentor/studymentor.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYMENTOR_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "studymentor", "studymentor.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
