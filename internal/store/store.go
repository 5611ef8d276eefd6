// Package store owns the connection to the marks table and runs the
// prepared statements the mark repository asks for by key.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	// Postgres via lib/pq ("postgres") and pgx ("pgx").
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Driver names a supported database/sql driver.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverPgx      Driver = "pgx"
)

// Config selects the database to connect to.
type Config struct {
	Driver Driver
	DSN    string
}

// Row is one row of the marks table.
type Row struct {
	StudentID   string
	Assignment1 int
	Assignment2 int
	Exam        int
	Total       int
	Grade       string
}

type prepared struct {
	statement
	stmt *sql.Stmt
}

// DB is a connected, initialised marks store. Every statement is prepared
// once in Open and reused until Close.
type DB struct {
	db      *sql.DB
	driver  Driver
	dialect string
	stmts   map[Key]*prepared
	logger  log.Logger
}

// Open connects to the database, creates the marks table if it does not
// exist and prepares every statement. Any failure is an *ErrConnection.
func Open(ctx context.Context, cfg Config, logger log.Logger) (*DB, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	switch cfg.Driver {
	case DriverSQLite, DriverPostgres, DriverPgx:
	default:
		return nil, &ErrConnection{Op: "open", Err: fmt.Errorf("unsupported driver %q", cfg.Driver)}
	}
	if cfg.DSN == "" {
		return nil, &ErrConnection{Op: "open", Err: errors.New("empty DSN")}
	}

	db, err := sql.Open(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, &ErrConnection{Op: "open", Err: err}
	}

	if cfg.Driver == DriverSQLite {
		// One connection keeps in-memory databases and pragmas stable.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, &ErrConnection{Op: "apply pragmas", Err: err}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ErrConnection{Op: "ping", Err: err}
	}

	s := &DB{
		db:      db,
		driver:  cfg.Driver,
		dialect: dialectFor(cfg.Driver),
		stmts:   make(map[Key]*prepared, len(Keys())),
		logger:  log.With(logger, "component", "store"),
	}

	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, &ErrConnection{Op: "ensure schema", Err: err}
	}

	for _, key := range Keys() {
		if err := s.prepare(ctx, key); err != nil {
			s.Close()
			return nil, &ErrConnection{Op: "prepare " + key.String(), Err: err}
		}
	}

	level.Info(s.logger).Log("msg", "store opened", "driver", cfg.Driver, "statements", len(s.stmts))
	return s, nil
}

// RunSelect runs the query statement for key and returns its rows in the
// order the statement defines.
func (s *DB) RunSelect(ctx context.Context, key Key, args ...any) ([]Row, error) {
	p, err := s.lookup(key, kindQuery)
	if err != nil {
		return nil, err
	}
	bound, err := p.args(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	rows, err := p.stmt.QueryContext(ctx, bound...)
	if err != nil {
		return nil, classify(key, err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		var grade sql.NullString
		if err := rows.Scan(&r.StudentID, &r.Assignment1, &r.Assignment2, &r.Exam, &r.Total, &grade); err != nil {
			return nil, classify(key, err)
		}
		r.Grade = grade.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(key, err)
	}

	level.Debug(s.logger).Log("msg", "select", "key", key, "rows", len(out))
	return out, nil
}

// RunCommand runs the exec statement for key and returns the number of rows
// it changed.
func (s *DB) RunCommand(ctx context.Context, key Key, args ...any) (int64, error) {
	p, err := s.lookup(key, kindExec)
	if err != nil {
		return 0, err
	}
	bound, err := p.args(args)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	res, err := p.stmt.ExecContext(ctx, bound...)
	if err != nil {
		return 0, classify(key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(key, err)
	}

	level.Debug(s.logger).Log("msg", "command", "key", key, "affected", n)
	return n, nil
}

// Ping checks the connection is still usable.
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Driver returns the driver the store was opened with.
func (s *DB) Driver() Driver {
	return s.driver
}

// Close closes the prepared statements and then the connection.
func (s *DB) Close() error {
	var errs []error
	for key, p := range s.stmts {
		if err := p.stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", key, err))
		}
	}
	s.stmts = map[Key]*prepared{}

	if err := s.db.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return &ErrConnection{Op: "close", Err: err}
	}
	return nil
}

func (s *DB) prepare(ctx context.Context, key Key) error {
	st, err := render(s.dialect, key)
	if err != nil {
		return err
	}
	stmt, err := s.db.PrepareContext(ctx, st.query)
	if err != nil {
		return err
	}
	s.stmts[key] = &prepared{statement: st, stmt: stmt}
	return nil
}

func (s *DB) lookup(key Key, kind statementKind) (*prepared, error) {
	p, ok := s.stmts[key]
	if !ok {
		return nil, fmt.Errorf("%s: statement not prepared", key)
	}
	if p.kind != kind {
		return nil, fmt.Errorf("%s: wrong statement kind", key)
	}
	return p, nil
}

func (s *DB) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createTable(s.dialect))
	return err
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the SQLite database file path:
// $XDG_DATA_HOME/markassist/marks.db, falling back to
// ~/.local/share/markassist/marks.db. The parent directory is created.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "markassist", "marks.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
