package model

import (
	"time"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

// WorldRow 是 MySQL 里的一行：索引字段单列，完整快照放 payload。
type WorldRow struct {
	WorldID   int64     `gorm:"column:world_id;type:bigint;primaryKey;autoIncrement:false;comment:世界id" json:"worldId"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;not null;comment:快照版本" json:"version"`
	Seed      int64     `gorm:"column:seed;type:bigint;not null;comment:地图种子" json:"seed"`
	Turn      int       `gorm:"column:turn;type:int;not null;default:0;comment:回合数" json:"turn"`
	Payload   []byte    `gorm:"column:payload;type:mediumblob;not null;comment:快照json" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (m *WorldRow) TableName() string {
	return "world_snapshot"
}

func RowFromSnapshot(s *entity.WorldPersistSnapshot) (*WorldRow, error) {
	raw, err := EncodeSnapshot(s)
	if err != nil {
		return nil, err
	}
	return &WorldRow{
		WorldID: int64(s.WorldID),
		Version: s.Version,
		Seed:    s.Seed,
		Turn:    s.Turn,
		Payload: raw,
	}, nil
}

func SnapshotFromRow(m *WorldRow) (*entity.WorldPersistSnapshot, error) {
	return DecodeSnapshot(m.Payload)
}
