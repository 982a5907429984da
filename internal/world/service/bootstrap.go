package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
	"github.com/ooaoJ/Cities-Resources/modules/kit/errx"
)

// GenerateMap 按配置生成地图，宽高为 0 时取配置值。
func (s *WorldService) GenerateMap(width, height int, seed uint32) (*terrain.Map, error) {
	m, err := terrain.Generate(s.Params(width, height, seed))
	if err != nil {
		return nil, errx.Wrap(CodeGenerationFailure, "生成地图失败", err)
	}
	return m, nil
}

// NewWorld 生成新世界并在地图中心放下首都；首都落水时移到最近陆地。
func (s *WorldService) NewWorld(id entity.WorldID, seed uint32) (*entity.World, error) {
	m, err := s.GenerateMap(0, 0, seed)
	if err != nil {
		return nil, err
	}
	w := entity.NewWorld(id, m)
	cc := s.game.Capital
	c := w.AddCity(cc.Name, w.Width()/2, w.Height()/2, entity.Resources{
		Food:       cc.Food,
		Production: cc.Production,
		Population: cc.Population,
		Money:      cc.Money,
	}, cc.Radius)
	if _, err := MoveCityToLand(w, c.ID()); err != nil {
		return nil, err
	}
	return w, nil
}

// IntegrityWarning 描述恢复存档时被修正或丢弃的内容。
type IntegrityWarning struct {
	Kind   string        `json:"kind"`
	City   entity.CityID `json:"cityId"`
	Tile   string        `json:"tile,omitempty"`
	Detail string        `json:"detail"`
}

const (
	WarnDuplicateOccupancy  = "DUPLICATE_OCCUPANCY"
	WarnUnknownBuilding     = "UNKNOWN_BUILDING"
	WarnTileOutOfBounds     = "TILE_OUT_OF_BOUNDS"
	WarnDuplicateOrder      = "DUPLICATE_ORDER"
	WarnOrderTurnsFixed     = "ORDER_TURNS_FIXED"
	WarnOccupancyMismatch   = "OCCUPANCY_MISMATCH"
	WarnCityClamped         = "CITY_CLAMPED"
	WarnCityMoved           = "CITY_MOVED"
	WarnOrderTileOccupied   = "ORDER_TILE_OCCUPIED"
	WarnOrderOutOfTerritory = "ORDER_OUT_OF_TERRITORY"
)

// Restore 由存档重建世界：按种子重新生成地形，按城市 id 顺序挂回建筑与建造单。
// 建筑列表是占地的唯一来源，先到先得；后来者丢弃并记警告。
// 非法建造单丢弃并退款：类型未知、越界、重复排队、格子已有建筑、不在本城领土内。
// 没有名字的城市取 DefaultCityName。返回的世界脏标记为 false。
func (s *WorldService) Restore(ctx context.Context, snap *entity.WorldPersistSnapshot) (*entity.World, []IntegrityWarning, error) {
	if snap == nil {
		return nil, nil, reject(ReasonSnapshotInvalid, map[string]any{"detail": "nil snapshot"})
	}
	if snap.Seed < 0 || snap.Seed > int64(^uint32(0)) {
		return nil, nil, reject(ReasonSnapshotInvalid, map[string]any{"detail": "seed out of range", "seed": snap.Seed})
	}
	m, err := s.GenerateMap(snap.Width, snap.Height, uint32(snap.Seed))
	if err != nil {
		return nil, nil, err
	}
	w := entity.NewWorld(snap.WorldID, m)

	var warns []IntegrityWarning
	warn := func(kind string, id entity.CityID, tile string, format string, args ...any) {
		warns = append(warns, IntegrityWarning{Kind: kind, City: id, Tile: tile, Detail: fmt.Sprintf(format, args...)})
	}

	for i, cs := range snap.Cities {
		if cs.Name == "" {
			cs.Name = entity.DefaultCityName
		}
		x, y := clampInt(cs.X, 0, w.Width()-1), clampInt(cs.Y, 0, w.Height()-1)
		if x != cs.X || y != cs.Y {
			warn(WarnCityClamped, entity.CityID(i), entity.TileKey(cs.X, cs.Y), "city %q moved into bounds at %s", cs.Name, entity.TileKey(x, y))
		}
		c := w.AddCity(cs.Name, x, y, entity.Resources{
			Food:       cs.Food,
			Production: cs.Production,
			Population: cs.Population,
			Money:      cs.Money,
		}, cs.Radius())
		moved, err := MoveCityToLand(w, c.ID())
		if err != nil {
			return nil, nil, err
		}
		if moved {
			warn(WarnCityMoved, c.ID(), entity.TileKey(x, y), "city %q on water, moved to %s", cs.Name, c.Position().Key())
		}
	}

	for i, cs := range snap.Cities {
		id := entity.CityID(i)
		for _, b := range cs.Buildings {
			key := b.Point().Key()
			switch {
			case !b.Type.Known():
				warn(WarnUnknownBuilding, id, key, "unknown building type %q dropped", b.Type)
			case !w.InBounds(b.X, b.Y):
				warn(WarnTileOutOfBounds, id, key, "building %s dropped", b.Type)
			case !w.AttachBuilding(id, b.Point(), b.Type):
				o, _ := w.OccupancyAt(b.Point())
				warn(WarnDuplicateOccupancy, id, key, "building %s dropped, tile held by city %d", b.Type, o.Owner)
			}
		}
	}

	keys := make([]string, 0, len(snap.TileOccupancy))
	for key := range snap.TileOccupancy {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		rec := snap.TileOccupancy[key]
		p, err := entity.ParseTileKey(key)
		if err != nil {
			warn(WarnOccupancyMismatch, rec.OwnerCityID, key, "bad tile key ignored")
			continue
		}
		if o, ok := w.OccupancyAt(p); !ok || o.Owner != rec.OwnerCityID || o.Type != rec.Type {
			warn(WarnOccupancyMismatch, rec.OwnerCityID, key, "recorded %s/%d does not match buildings", rec.Type, rec.OwnerCityID)
		}
	}

	for i, cs := range snap.Cities {
		id := entity.CityID(i)
		for _, o := range cs.BuildQueue {
			key := o.Point().Key()
			switch {
			case !o.Type.Known():
				w.AddMoney(id, o.Cost)
				warn(WarnUnknownBuilding, id, key, "order %q dropped, refunded %d", o.Type, o.Cost)
				continue
			case !w.InBounds(o.X, o.Y):
				w.AddMoney(id, o.Cost)
				warn(WarnTileOutOfBounds, id, key, "order %s dropped, refunded %d", o.Type, o.Cost)
				continue
			}
			if owner, ok := w.QueuedBy(o.Point()); ok {
				w.AddMoney(id, o.Cost)
				warn(WarnDuplicateOrder, id, key, "order %s dropped, tile queued by city %d, refunded %d", o.Type, owner, o.Cost)
				continue
			}
			if occ, ok := w.OccupancyAt(o.Point()); ok {
				w.AddMoney(id, o.Cost)
				warn(WarnOrderTileOccupied, id, key, "order %s dropped, tile holds %s of city %d, refunded %d", o.Type, occ.Type, occ.Owner, o.Cost)
				continue
			}
			if !w.IsTileInTerritory(id, o.X, o.Y) {
				w.AddMoney(id, o.Cost)
				warn(WarnOrderOutOfTerritory, id, key, "order %s dropped, tile outside territory, refunded %d", o.Type, o.Cost)
				continue
			}
			if o.RemainingTurns < 1 {
				warn(WarnOrderTurnsFixed, id, key, "remainingTurns %d raised to 1", o.RemainingTurns)
				o.RemainingTurns = 1
			}
			w.AddOrder(id, o)
		}
	}

	w.SetTurn(snap.Turn)
	w.ClearDirty()

	for _, iw := range warns {
		s.log.WithContext(ctx).Warn("restore integrity warning",
			zap.Int64("world_id", int64(snap.WorldID)),
			zap.String("kind", iw.Kind),
			zap.Int("city_id", int(iw.City)),
			zap.String("tile", iw.Tile),
			zap.String("detail", iw.Detail),
		)
	}
	return w, warns, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
