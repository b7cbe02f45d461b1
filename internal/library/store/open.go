package store

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/libris/internal/library/store/drivers/memory"
	"github.com/aussiebroadwan/libris/internal/library/store/drivers/redis"
	"github.com/aussiebroadwan/libris/internal/library/store/drivers/sqlite"
	"github.com/aussiebroadwan/libris/pkg/cryptox"
	"github.com/aussiebroadwan/libris/pkg/librarysdk"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	Driver      string // memory, sqlite or redis (default: sqlite)
	File        string // sqlite database file
	RedisAddr   string
	RedisPrefix string

	// Sealer, when set, encrypts every value before it reaches the driver.
	Sealer *cryptox.Sealer
}

// Open builds the configured token store, applying migrations for sqlite.
func Open(ctx context.Context, cfg Config) (librarysdk.TokenStore, error) {
	var (
		s   librarysdk.TokenStore
		err error
	)

	switch cfg.Driver {
	case DriverMemory:
		s = memory.NewStore()
	case DriverSQLite, "":
		s, err = openSQLite(cfg.File)
	case DriverRedis:
		s, err = redis.Dial(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown token store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Sealer != nil {
		s = Sealed(s, cfg.Sealer)
	}
	return s, nil
}

func openSQLite(file string) (librarysdk.TokenStore, error) {
	db, err := sqlite.NewStore(sqlite.FileDSN(file))
	if err != nil {
		return nil, fmt.Errorf("failed to open token database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply token database migrations: %w", err)
	}

	return db, nil
}
