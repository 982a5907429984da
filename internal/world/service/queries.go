package service

import (
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

// FindNearestValidTile 由近到远按切比雪夫环扫描领地，环内按行优先，返回第一个可直接建造的格子。
func FindNearestValidTile(w *entity.World, id entity.CityID, t entity.BuildingType) (entity.Point, error) {
	c, ok := w.City(id)
	if !ok {
		return entity.Point{}, reject(ReasonCityNotFound, map[string]any{"city_id": id})
	}
	if !t.Known() {
		return entity.Point{}, reject(ReasonUnknownType, map[string]any{"type": string(t)})
	}
	for r := 0; r <= c.TerritoryRadius(); r++ {
		for oy := -r; oy <= r; oy++ {
			for ox := -r; ox <= r; ox++ {
				if max(abs(ox), abs(oy)) != r {
					continue
				}
				x, y := c.X()+ox, c.Y()+oy
				if ValidatePlacement(w, id, x, y, t) == nil {
					return entity.Point{X: x, Y: y}, nil
				}
			}
		}
	}
	return entity.Point{}, reject(ReasonNoValidTile, map[string]any{"city_id": id, "type": string(t)})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// BuildOption 是某格可选的建造项。
type BuildOption struct {
	Type  entity.BuildingType `json:"type"`
	Name  string              `json:"name"`
	Cost  int                 `json:"cost"`
	Turns int                 `json:"turns"`
	// Affordable 表示城市当前资金够不够。
	Affordable bool `json:"affordable"`
}

// BuildOptions 取该格地形的菜单，过滤掉规则不允许的项。格子本身不可建时返回拒绝原因。
func (s *WorldService) BuildOptions(w *entity.World, id entity.CityID, x, y int) ([]BuildOption, error) {
	code, ok := w.Terrain(x, y)
	if !ok {
		return nil, reject(ReasonOutOfBounds, map[string]any{"x": x, "y": y})
	}
	c, ok := w.City(id)
	if !ok {
		return nil, reject(ReasonCityNotFound, map[string]any{"city_id": id})
	}
	if owner, queued := w.QueuedBy(entity.Point{X: x, Y: y}); queued {
		return nil, reject(ReasonTileQueued, map[string]any{"x": x, "y": y, "queued_by": owner})
	}
	var out []BuildOption
	for _, e := range s.catalog.Menu(code.String()) {
		t, known := entity.ParseBuildingType(e.Type)
		if !known {
			continue
		}
		if err := ValidatePlacement(w, id, x, y, t); err != nil {
			if ReasonOf(err) == ReasonTerrainNotAllowed.Code {
				continue
			}
			return nil, err
		}
		out = append(out, BuildOption{
			Type:       t,
			Name:       e.Name,
			Cost:       e.Cost,
			Turns:      e.Turns,
			Affordable: c.Resources().Money >= e.Cost,
		})
	}
	return out, nil
}
