// Package state persists wallet state in SQLite: the current account, account
// snapshots, created topics, token associations, atomic swaps and an
// activity log of every transaction the facades submitted.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
)

var (
	ErrNotFound         = errors.New("state record not found")
	ErrNoCurrentAccount = errors.New("no current account selected")
)

const databaseFile = "wallet.db"

// Storage is the SQLite-backed wallet state store.
type Storage struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

type Config struct {
	DataDir string
}

// New opens (and if needed creates) the wallet database under DataDir.
func New(cfg Config) (*Storage, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	dataDir := shared.ExpandPath(cfg.DataDir)

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, databaseFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Storage{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Path() string {
	return s.dbPath
}

func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS accounts (
		network TEXT NOT NULL,
		account_id TEXT NOT NULL,
		evm_address TEXT NOT NULL DEFAULT '',
		public_key TEXT NOT NULL DEFAULT '',
		key_type TEXT NOT NULL DEFAULT '',
		hbar_balance INTEGER NOT NULL DEFAULT 0,
		tokens TEXT NOT NULL DEFAULT '[]',
		staked_node_id INTEGER,
		staked_account_id TEXT NOT NULL DEFAULT '',
		decline_reward INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (network, account_id)
	);

	CREATE TABLE IF NOT EXISTS topics (
		network TEXT NOT NULL,
		topic_id TEXT NOT NULL,
		owner TEXT NOT NULL,
		memo TEXT NOT NULL DEFAULT '',
		admin_key TEXT NOT NULL DEFAULT '',
		submit_key TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (network, topic_id)
	);

	CREATE INDEX IF NOT EXISTS idx_topics_owner ON topics(network, owner);

	CREATE TABLE IF NOT EXISTS token_associations (
		network TEXT NOT NULL,
		account_id TEXT NOT NULL,
		token_id TEXT NOT NULL,
		symbol TEXT NOT NULL DEFAULT '',
		decimals INTEGER NOT NULL DEFAULT 0,
		associated_at INTEGER NOT NULL,
		PRIMARY KEY (network, account_id, token_id)
	);

	CREATE TABLE IF NOT EXISTS swaps (
		id TEXT PRIMARY KEY,
		network TEXT NOT NULL,
		schedule_id TEXT NOT NULL,
		scheduled_transaction_id TEXT NOT NULL DEFAULT '',
		transaction_id TEXT NOT NULL,
		requester TEXT NOT NULL,
		responders TEXT NOT NULL,
		memo TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL,
		detail BLOB NOT NULL,
		expires_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		completed_at INTEGER,
		UNIQUE (network, schedule_id)
	);

	CREATE INDEX IF NOT EXISTS idx_swaps_state ON swaps(state);

	CREATE TABLE IF NOT EXISTS activity (
		id TEXT PRIMARY KEY,
		network TEXT NOT NULL,
		account_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		transaction_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_activity_account ON activity(network, account_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Storage) setSetting(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UnixMilli())
	return err
}

func (s *Storage) getSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return value, err
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value)
}
