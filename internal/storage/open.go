package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhouzirui/solace/backend/internal/config"
)

// Open builds the store selected by configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageFile:
		return NewFileStore(cfg.Path)
	case config.StorageSQLite:
		return NewSQLiteStore(ctx, sqlitePath(cfg.Path))
	case config.StorageRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// sqlitePath resolves STORAGE_PATH to a database file. A directory, or a path
// that does not exist yet and has no database extension, gets solace.db inside it.
func sqlitePath(path string) string {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return filepath.Join(path, "solace.db")
		}
		return path
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return path
	}
	return filepath.Join(path, "solace.db")
}
