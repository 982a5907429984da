package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/shared/config"
	"github.com/ooaoJ/Cities-Resources/internal/shared/infrastructure/db"
	"github.com/ooaoJ/Cities-Resources/internal/shared/logs"
	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/file"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/memory"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/mongodb"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/mysql"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/sqlite"
)

const (
	DriverMemory  = "memory"
	DriverFile    = "file"
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
	DriverMySQL   = "mysql"
)

// Open 按 persistence.driver 打开仓储，返回的 closer 释放底层连接。
func Open(ctx context.Context, cfg *config.Config) (port.WorldRepository, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Persistence.Driver {
	case "", DriverMemory:
		return memory.NewWorldRepository(), nop, nil
	case DriverFile:
		r, err := file.NewWorldRepository(pathOr(cfg.Persistence.Path, "data/worlds"))
		if err != nil {
			return nil, nil, err
		}
		return r, nop, nil
	case DriverSQLite:
		r, err := sqlite.Open(pathOr(cfg.Persistence.Path, "data/world.db"))
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil
	case DriverMongoDB:
		r, closer, err := mongodb.Connect(ctx, cfg.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		return r, closer, nil
	case DriverMySQL:
		gdb, err := db.Open(cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		r := mysql.NewWorldRepository(gdb)
		if err := r.AutoMigrate(); err != nil {
			return nil, nil, err
		}
		closer := func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return r, closer, nil
	default:
		logs.Error("unknown persistence driver", zap.String("driver", cfg.Persistence.Driver))
		return nil, nil, fmt.Errorf("unknown persistence driver %q", cfg.Persistence.Driver)
	}
}

func pathOr(p, def string) string {
	if p == "" {
		return def
	}
	return p
}
