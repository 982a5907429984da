package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ooaoJ/Cities-Resources/internal/world/app/port"
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/infra/persistence/model"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

const (
	OpLoadWorld = "repo.world.mysql.LoadWorld"
	OpSave      = "repo.world.mysql.Save"
)

type WorldRepository struct {
	db *gorm.DB
}

func NewWorldRepository(db *gorm.DB) *WorldRepository {
	return &WorldRepository{db: db}
}

// AutoMigrate 建表，启动时调用一次。
func (r *WorldRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&model.WorldRow{})
}

func (r *WorldRepository) WithTx(tx *gorm.DB) *WorldRepository {
	return &WorldRepository{db: tx}
}

func (r *WorldRepository) LoadWorld(ctx context.Context, id entity.WorldID) (*entity.WorldPersistSnapshot, error) {
	var m model.WorldRow
	err := r.db.WithContext(ctx).Where("world_id = ?", int64(id)).First(&m).Error

	switch {
	case err == nil:
		return model.SnapshotFromRow(&m)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, port.ErrWorldNotFound.WithData("world_id", id)
	default:
		return nil, errx.Wrap(errx.CodeUnavailable, OpLoadWorld, err).WithData("world_id", id)
	}
}

func (r *WorldRepository) Save(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	row, err := model.RowFromSnapshot(s)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.WorldRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("world_id", "version").
			Where("world_id = ?", row.WorldID).
			First(&cur).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(row).Error
		case err != nil:
			return err
		case cur.Version > row.Version:
			return nil
		}
		return tx.Save(row).Error
	})
	if err != nil {
		return errx.Wrap(errx.CodeUnavailable, OpSave, err).WithData("world_id", s.WorldID)
	}
	return nil
}
