package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/model"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

const (
	OpLoadWorld = "repo.world.sqlite.LoadWorld"
	OpSave      = "repo.world.sqlite.Save"
)

// WorldRepository 单文件 sqlite，一个世界一行。
type WorldRepository struct {
	db *sql.DB
}

func Open(path string) (*WorldRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
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
	return &WorldRepository{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS worlds (
		world_id INTEGER PRIMARY KEY,
		version INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		payload BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

func (r *WorldRepository) Close() error {
	return r.db.Close()
}

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.WorldPersistSnapshot, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM worlds WHERE world_id = ?`, int64(id)).Scan(&raw)
	switch {
	case err == nil:
		return model.DecodeSnapshot(raw)
	case errors.Is(err, sql.ErrNoRows):
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	default:
		return nil, errx.Wrap(errx.CodeUnavailable, OpLoadWorld, err).WithData("world_id", id)
	}
}

// Save 只在新版本不低于已存版本时覆盖。
func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	raw, err := model.EncodeSnapshot(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO worlds (world_id, version, seed, turn, payload, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(world_id) DO UPDATE SET
			version = excluded.version,
			seed = excluded.seed,
			turn = excluded.turn,
			payload = excluded.payload,
			updated_at = excluded.updated_at
		WHERE excluded.version >= worlds.version`,
		int64(s.WorldID), int64(s.Version), s.Seed, s.Turn, raw, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errx.Wrap(errx.CodeUnavailable, OpSave, err).WithData("world_id", s.WorldID).WithData("version", s.Version)
	}
	return nil
}
