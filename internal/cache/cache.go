// Package cache memoizes external solver results keyed by the SHA-256
// of the two bracketed tree encodings sent to it, since the solver is
// the most expensive step in the pipeline and repeated runs against
// the same pair of documents are common during iterative development.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"fmt"

	treediff "github.com/pagereplay/treediff"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/pagereplay/treediff/internal/mapping"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Cache wraps a SQLite-backed store of solver mapping results.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// applies any pending goose migrations.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening cache db %s: %v", treediff.ErrIO, path, err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("%w: setting goose dialect: %v", treediff.ErrIO, err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return nil, fmt.Errorf("%w: applying cache migrations: %v", treediff.ErrIO, err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error { return c.db.Close() }

// Key hashes the two bracket-encoded tree inputs sent to the solver.
func Key(firstBracket, secondBracket string) string {
	sum := sha256.Sum256([]byte(firstBracket + "\x00" + secondBracket))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached mapping for key, and whether it was found.
func (c *Cache) Get(key string) ([]mapping.Pair, bool, error) {
	var raw string
	err := c.db.QueryRow(`SELECT mapping FROM solver_results WHERE input_hash = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading cache: %v", treediff.ErrIO, err)
	}

	var pairs []mapping.Pair
	if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
		return nil, false, fmt.Errorf("%w: decoding cached mapping: %v", treediff.ErrIO, err)
	}
	return pairs, true, nil
}

// Put stores pairs under key, overwriting any existing entry.
func (c *Cache) Put(key string, pairs []mapping.Pair) error {
	raw, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("%w: encoding mapping: %v", treediff.ErrIO, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO solver_results (input_hash, mapping) VALUES (?, ?)
		 ON CONFLICT(input_hash) DO UPDATE SET mapping = excluded.mapping`,
		key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: writing cache: %v", treediff.ErrIO, err)
	}
	return nil
}
