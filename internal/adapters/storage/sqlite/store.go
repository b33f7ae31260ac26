// Package sqlite persists the quote list and the selected category in a
// single SQLite key-value table.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

// Storage keys.
const (
	KeyQuotes           = "quotes"
	KeySelectedCategory = "selectedCategory"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Config configures the store.
type Config struct {
	// Path is the database file, or MemoryPath.
	Path string

	// BusyTimeout is how long a writer waits on a locked database.
	BusyTimeout time.Duration
}

// Store is the SQLite-backed implementation of ports.QuoteStore.
type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and applies pending migrations.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection: SQLite has a single writer, and each connection to
	// :memory: would otherwise see its own empty database.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func dataSourceName(cfg Config) (string, error) {
	if cfg.Path == MemoryPath {
		return MemoryPath, nil
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("creating database directory: %w", err)
		}
	}

	query := url.Values{}
	query.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	query.Add("_pragma", "journal_mode(WAL)")

	// The path is percent-encoded so '?', '#' and '%' stay part of it.
	dsn := url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     filepath.ToSlash(cfg.Path),
		RawQuery: query.Encode(),
	}

	return dsn.String(), nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "sqlite" }

// Check implements ports.HealthChecker.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadQuotes implements ports.QuoteStore.
func (s *Store) LoadQuotes(ctx context.Context) ([]domain.Quote, bool, error) {
	raw, found, err := s.get(ctx, KeyQuotes)
	if err != nil || !found {
		return nil, found, err
	}

	var quotes []domain.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		return nil, true, fmt.Errorf("decoding stored quotes: %w", err)
	}

	if quotes == nil {
		quotes = []domain.Quote{}
	}

	return quotes, true, nil
}

// SaveQuotes implements ports.QuoteStore.
func (s *Store) SaveQuotes(ctx context.Context, quotes []domain.Quote) error {
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	raw, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}

	return s.set(ctx, KeyQuotes, raw)
}

// LoadSelectedCategory implements ports.QuoteStore.
func (s *Store) LoadSelectedCategory(ctx context.Context) (string, bool, error) {
	raw, found, err := s.get(ctx, KeySelectedCategory)
	if err != nil || !found {
		return "", found, err
	}

	return string(raw), true, nil
}

// SaveSelectedCategory implements ports.QuoteStore.
func (s *Store) SaveSelectedCategory(ctx context.Context, category string) error {
	return s.set(ctx, KeySelectedCategory, []byte(category))
}

func (s *Store) get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte

	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}

	return value, true, nil
}

func (s *Store) set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}
