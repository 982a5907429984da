package service

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

// ParseBuildingType 解析外部输入；未知类型返回拒绝，并附带最接近的已知类型。
func ParseBuildingType(s string) (entity.BuildingType, error) {
	if t, ok := entity.ParseBuildingType(s); ok {
		return t, nil
	}
	data := map[string]any{"type": s}
	if hint := suggestType(s); hint != "" {
		data["suggestion"] = hint
	}
	return "", reject(ReasonUnknownType, data)
}

// suggestType 编辑距离不超过 2 时给出建议。
func suggestType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	best, bestDist := "", 3
	for _, t := range entity.BuildingTypes() {
		if d := levenshtein.ComputeDistance(s, string(t)); d < bestDist {
			best, bestDist = string(t), d
		}
	}
	return best
}

// IsValid 只看地形规则；越界与未知类型一律 false。
func IsValid(w *entity.World, x, y int, t entity.BuildingType) bool {
	return t.AllowedAt(w.TerrainGrid(), x, y)
}

// checkTile 是直接建造与排队共用的前置校验：类型、越界、城市格、领地、占地。
func checkTile(w *entity.World, id entity.CityID, x, y int, t entity.BuildingType) error {
	data := map[string]any{"city_id": id, "x": x, "y": y, "type": string(t)}
	if _, ok := w.City(id); !ok {
		return reject(ReasonCityNotFound, data)
	}
	if !t.Known() {
		return reject(ReasonUnknownType, data)
	}
	if !w.InBounds(x, y) {
		return reject(ReasonOutOfBounds, data)
	}
	if _, ok := w.CityAt(x, y); ok {
		return reject(ReasonTileHasCity, data)
	}
	if !w.IsTileInTerritory(id, x, y) {
		return reject(ReasonOutsideTerritory, data)
	}
	if o, ok := w.OccupancyAt(entity.Point{X: x, Y: y}); ok {
		data["occupied_by"] = o.Owner
		return reject(ReasonTileOccupied, data)
	}
	return nil
}

// ValidatePlacement 返回直接建造会被拒绝的原因，nil 表示可以建造。不修改状态。
func ValidatePlacement(w *entity.World, id entity.CityID, x, y int, t entity.BuildingType) error {
	if err := checkTile(w, id, x, y, t); err != nil {
		return err
	}
	if !IsValid(w, x, y, t) {
		return reject(ReasonTerrainNotAllowed, map[string]any{"city_id": id, "x": x, "y": y, "type": string(t)})
	}
	return nil
}

// PlaceBuilding 立即建造：写占地、追加建筑、加收益。失败时不做任何修改。
// 不检查排队索引：别的途径抢先占格后，到期的建造单会退款。
func PlaceBuilding(w *entity.World, id entity.CityID, x, y int, t entity.BuildingType) error {
	if err := ValidatePlacement(w, id, x, y, t); err != nil {
		return err
	}
	w.CommitBuilding(id, entity.Point{X: x, Y: y}, t)
	return nil
}
