package entity

import (
	"sort"
	"strings"

	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
)

// BuildingType 是建筑种类，取值固定。
type BuildingType string

const (
	Farm    BuildingType = "farm"
	Mine    BuildingType = "mine"
	Well    BuildingType = "well"
	Mill    BuildingType = "mill"
	House   BuildingType = "house"
	Lumber  BuildingType = "lumber"
	Hunting BuildingType = "hunting"
	Factory BuildingType = "factory"
	Market  BuildingType = "market"
)

// TerrainRule 判断 (x,y) 是否允许该建筑，可以查看邻格。
type TerrainRule func(g *terrain.Grid[terrain.Code], x, y int) bool

// BuildingRule 是建筑的地形约束与落成收益。
type BuildingRule struct {
	Allowed TerrainRule
	Delta   ResourceDelta
}

func onTerrain(codes ...terrain.Code) TerrainRule {
	return func(g *terrain.Grid[terrain.Code], x, y int) bool {
		c := g.At(x, y)
		for _, want := range codes {
			if c == want {
				return true
			}
		}
		return false
	}
}

func notOcean(g *terrain.Grid[terrain.Code], x, y int) bool {
	return g.At(x, y) != terrain.Ocean
}

// grassOrRiverside：草地，或 8 邻域内有河流。
func grassOrRiverside(g *terrain.Grid[terrain.Code], x, y int) bool {
	if g.At(x, y) == terrain.Grass {
		return true
	}
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			if ox == 0 && oy == 0 {
				continue
			}
			nx, ny := x+ox, y+oy
			if g.InBounds(nx, ny) && g.At(nx, ny) == terrain.River {
				return true
			}
		}
	}
	return false
}

var buildingRules = map[BuildingType]BuildingRule{
	Farm:    {Allowed: onTerrain(terrain.Grass, terrain.Forest), Delta: ResourceDelta{Production: 2, Food: 10}},
	Mine:    {Allowed: onTerrain(terrain.Mountain), Delta: ResourceDelta{Production: 3}},
	Well:    {Allowed: onTerrain(terrain.Sand), Delta: ResourceDelta{Food: 2}},
	Mill:    {Allowed: grassOrRiverside, Delta: ResourceDelta{Production: 1}},
	House:   {Allowed: notOcean, Delta: ResourceDelta{Population: 1}},
	Lumber:  {Allowed: onTerrain(terrain.Forest), Delta: ResourceDelta{Production: 1}},
	Hunting: {Allowed: onTerrain(terrain.Forest), Delta: ResourceDelta{Food: 5}},
	Factory: {Allowed: onTerrain(terrain.Grass), Delta: ResourceDelta{Production: 5}},
	Market:  {Allowed: onTerrain(terrain.Grass), Delta: ResourceDelta{Money: 10}},
}

var buildingLetters = map[BuildingType]byte{
	Farm:    'F',
	Mine:    'M',
	House:   'H',
	Well:    'W',
	Mill:    'L',
	Lumber:  'S',
	Hunting: 'C',
	Factory: 'P',
	Market:  '$',
}

// Letter 是地图上标记建筑用的字符，未知类型为 '?'。
func (t BuildingType) Letter() byte {
	if b, ok := buildingLetters[t]; ok {
		return b
	}
	return '?'
}

// RuleFor 未知类型返回 false。
func RuleFor(t BuildingType) (BuildingRule, bool) {
	r, ok := buildingRules[t]
	return r, ok
}

func (t BuildingType) Known() bool {
	_, ok := buildingRules[t]
	return ok
}

// AllowedAt 未知类型或越界一律 false。
func (t BuildingType) AllowedAt(g *terrain.Grid[terrain.Code], x, y int) bool {
	r, ok := buildingRules[t]
	if !ok || !g.InBounds(x, y) {
		return false
	}
	return r.Allowed(g, x, y)
}

// ParseBuildingType 大小写不敏感。
func ParseBuildingType(s string) (BuildingType, bool) {
	t := BuildingType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Known()
}

// BuildingTypes 按名字排序。
func BuildingTypes() []BuildingType {
	out := make([]BuildingType, 0, len(buildingRules))
	for t := range buildingRules {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Building 是已落成的建筑。
type Building struct {
	X    int          `json:"x"`
	Y    int          `json:"y"`
	Type BuildingType `json:"type"`
}

func (b Building) Point() Point { return Point{X: b.X, Y: b.Y} }

// Occupancy 是格子上的建筑记录，每格至多一条。
type Occupancy struct {
	Type  BuildingType `json:"type"`
	Owner CityID       `json:"ownerCityId"`
}

// ConstructionOrder 是排队中的建造，RemainingTurns 建单时 >= 1。
type ConstructionOrder struct {
	X              int          `json:"x"`
	Y              int          `json:"y"`
	Type           BuildingType `json:"type"`
	Cost           int          `json:"cost"`
	RemainingTurns int          `json:"remainingTurns"`
}

func (o ConstructionOrder) Point() Point { return Point{X: o.X, Y: o.Y} }
