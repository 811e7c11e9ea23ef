// Package sqlite implements ports.SignatureCache on an embedded SQLite database.
// Signature text is stored zstd-compressed; expansions are highly repetitive
// and shrink by orders of magnitude.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/ltree/pkg/domain"
	"github.com/klauspost/compress/zstd"

	_ "modernc.org/sqlite"
)

// Store is a SignatureCache persisted in a single SQLite file.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open creates (if needed) and opens the database at path.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, enc: enc, dec: dec}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS signatures (
	key        TEXT PRIMARY KEY,
	rule       TEXT NOT NULL,
	iterations INTEGER NOT NULL,
	length     INTEGER NOT NULL,
	data       BLOB NOT NULL,
	created_at INTEGER NOT NULL
);`)
	return err
}

// Get retrieves a signature by key.
func (s *Store) Get(ctx context.Context, key string) (domain.Signature, error) {
	sig := domain.Signature{Generated: true}
	var (
		length int
		data   []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT rule, iterations, length, data FROM signatures WHERE key = ?`, key,
	).Scan(&sig.Rule, &sig.Iterations, &length, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Signature{}, domain.ErrSignatureNotFound
	}
	if err != nil {
		return domain.Signature{}, fmt.Errorf("failed to query signature: %w", err)
	}

	text, err := s.dec.DecodeAll(data, make([]byte, 0, length))
	if err != nil {
		return domain.Signature{}, fmt.Errorf("failed to decompress signature %s: %w", key, err)
	}
	if len(text) != length {
		return domain.Signature{}, fmt.Errorf("signature %s: stored length %d, decoded %d", key, length, len(text))
	}
	sig.Text = string(text)
	return sig, nil
}

// Put inserts or replaces the signature.
func (s *Store) Put(ctx context.Context, sig domain.Signature) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO signatures (key, rule, iterations, length, data, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	rule = excluded.rule,
	iterations = excluded.iterations,
	length = excluded.length,
	data = excluded.data,
	created_at = excluded.created_at`,
		sig.Key(), sig.Rule, sig.Iterations, len(sig.Text), s.enc.EncodeAll([]byte(sig.Text), nil), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store signature: %w", err)
	}
	return nil
}

// Delete removes the signature stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM signatures WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete signature: %w", err)
	}
	return nil
}

// Count returns the number of stored signatures.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM signatures`).Scan(&n)
	return n, err
}

// Size returns the compressed bytes stored for key.
func (s *Store) Size(ctx context.Context, key string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT length(data) FROM signatures WHERE key = ?`, key).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrSignatureNotFound
	}
	return n, err
}

// Close closes the database and releases the codecs.
func (s *Store) Close() error {
	s.dec.Close()
	return errors.Join(s.enc.Close(), s.db.Close())
}
