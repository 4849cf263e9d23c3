// Package store persists quiz attempts, the leaderboard, audited courses,
// game sessions, players, achievements and the LLM request log. SQLite is
// the default backend; a postgres:// DSN selects PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// PostgreSQL driver registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database handle and hands out repositories.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to dsn and migrates the schema. A DSN starting with
// postgres:// or postgresql:// opens PostgreSQL; anything else is a
// SQLite path or URI.
func Open(dsn string) (*Store, error) {
	s, err := open(dsn)
	if err != nil {
		return nil, err
	}
	if err := s.migrate(context.Background()); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

func open(dsn string) (*Store, error) {
	if isPostgres(dsn) {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return &Store{db: db, dialect: dialect.Postgres}, nil
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection serializes writers, which is what makes the
	// read-modify-write transactions atomic on SQLite.
	db.SetMaxOpenConns(1)
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	return &Store{db: db, dialect: dialect.SQLite}, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the SQL dialect name, "sqlite3" or "postgres".
func (s *Store) Dialect() string {
	return s.dialect
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Attempts returns the quiz attempt log.
func (s *Store) Attempts() AttemptRepo { return &attemptRepo{s} }

// Leaderboard returns the leaderboard.
func (s *Store) Leaderboard() LeaderboardRepo { return &leaderboardRepo{s} }

// Courses returns the course audit log.
func (s *Store) Courses() CourseRepo { return &courseRepo{s} }

// Sessions returns the game session repository.
func (s *Store) Sessions() SessionRepo { return &sessionRepo{s} }

// Players returns the player repository.
func (s *Store) Players() PlayerRepo { return &playerRepo{s} }

// Achievements returns the achievement repository.
func (s *Store) Achievements() AchievementRepo { return &achievementRepo{s} }

// LLMEvents returns the LLM request log.
func (s *Store) LLMEvents() LLMEventRepo { return &llmEventRepo{s} }

// builder returns an ent SQL builder for this store's dialect.
func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn in a transaction, committing on success.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for a single-process server.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the SQLite database path:
// $XDG_DATA_HOME/cyberquest/cyberquest.db, else
// ~/.local/share/cyberquest/cyberquest.db.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	p := filepath.Join(dataHome, "cyberquest", "cyberquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of a SQLite path. URIs and
// PostgreSQL DSNs are left alone.
func EnsureDir(dsn string) error {
	if isPostgres(dsn) || strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(dsn), 0o755)
}
