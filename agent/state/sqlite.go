package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type SQLiteConfig struct {
	Path string `envconfig:"PATH" split_words:"true" default:".data/local.db"`
}

// NewSQLiteStore opens (and creates, if needed) the local SQLite session
// database. This is the default backend outside cloud environments.
func NewSQLiteStore(ctx context.Context, cfg SQLiteConfig) (*BunStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer keeps per-session record writes atomic.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return newBunStore(ctx, db)
}
