package entity

import (
	"fmt"

	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
)

// World 是一局游戏的聚合根。单线程使用，不加锁；并发由外层 actor 串行化。
type World struct {
	id     WorldID
	m      *terrain.Map
	cities []*City
	// occupancy 与 queued 是全局索引：每格至多一条建筑记录、至多一张建造单。
	occupancy map[Point]Occupancy
	queued    map[Point]CityID
	turn      int
	dirty     bool
}

func NewWorld(id WorldID, m *terrain.Map) *World {
	return &World{
		id:        id,
		m:         m,
		occupancy: make(map[Point]Occupancy),
		queued:    make(map[Point]CityID),
	}
}

func (w *World) ID() WorldID  { return w.id }
func (w *World) Seed() uint32 { return w.m.Seed }
func (w *World) Width() int   { return w.m.Width() }
func (w *World) Height() int  { return w.m.Height() }
func (w *World) Turn() int    { return w.turn }

func (w *World) Map() *terrain.Map {
	return w.m
}

func (w *World) TerrainGrid() *terrain.Grid[terrain.Code] {
	return w.m.Terrain
}

func (w *World) InBounds(x, y int) bool {
	return w.m.Terrain.InBounds(x, y)
}

// Terrain 越界返回 false。
func (w *World) Terrain(x, y int) (terrain.Code, bool) {
	if !w.InBounds(x, y) {
		return 0, false
	}
	return w.m.Terrain.At(x, y), true
}

func (w *World) Elevation(x, y int) (float64, bool) {
	if !w.InBounds(x, y) {
		return 0, false
	}
	return w.m.Elevation.At(x, y), true
}

// AddCity 追加城市并计算领地，id 为追加前的城市数。
func (w *World) AddCity(name string, x, y int, res Resources, radius int) *City {
	if radius < 0 {
		radius = 0
	}
	c := &City{
		id:        CityID(len(w.cities)),
		name:      name,
		x:         x,
		y:         y,
		resources: res,
		radius:    radius,
	}
	w.cities = append(w.cities, c)
	w.computeTerritory(c)
	w.dirty = true
	return c
}

func (w *World) City(id CityID) (*City, bool) {
	if id < 0 || int(id) >= len(w.cities) {
		return nil, false
	}
	return w.cities[id], true
}

func (w *World) Cities() []*City {
	return append([]*City(nil), w.cities...)
}

// CityAt 返回坐在 (x,y) 上的城市。
func (w *World) CityAt(x, y int) (*City, bool) {
	for _, c := range w.cities {
		if c.x == x && c.y == y {
			return c, true
		}
	}
	return nil, false
}

// MoveCity 移动城市并重算其领地。
func (w *World) MoveCity(id CityID, x, y int) {
	c := w.mustCity(id)
	if c.x == x && c.y == y {
		return
	}
	c.x, c.y = x, y
	w.computeTerritory(c)
	w.dirty = true
}

func (w *World) SetTerritoryRadius(id CityID, r int) {
	c := w.mustCity(id)
	if r < 0 {
		r = 0
	}
	if c.radius == r {
		return
	}
	c.radius = r
	w.computeTerritory(c)
	w.dirty = true
}

// RecomputeTerritories 全量重算；无状态变化时结果不变。
func (w *World) RecomputeTerritories() {
	for _, c := range w.cities {
		w.computeTerritory(c)
	}
}

func (w *World) computeTerritory(c *City) {
	c.territory = ComputeTerritory(c.x, c.y, c.radius, w.Width(), w.Height())
}

// IsTileInTerritory 未知城市返回 false。
func (w *World) IsTileInTerritory(id CityID, x, y int) bool {
	c, ok := w.City(id)
	if !ok {
		return false
	}
	return c.InTerritory(Point{X: x, Y: y})
}

func (w *World) CityTerritory(id CityID) []Point {
	c, ok := w.City(id)
	if !ok {
		return nil
	}
	return c.Territory()
}

func (w *World) OccupancyAt(p Point) (Occupancy, bool) {
	o, ok := w.occupancy[p]
	return o, ok
}

// TileOccupancy 返回以 "x,y" 为键的拷贝。
func (w *World) TileOccupancy() map[string]Occupancy {
	out := make(map[string]Occupancy, len(w.occupancy))
	for p, o := range w.occupancy {
		out[p.Key()] = o
	}
	return out
}

// QueuedBy 返回排了该格建造单的城市。
func (w *World) QueuedBy(p Point) (CityID, bool) {
	id, ok := w.queued[p]
	return id, ok
}

// CommitBuilding 写占地、追加建筑、加收益。调用方负责校验。
func (w *World) CommitBuilding(id CityID, p Point, t BuildingType) {
	c := w.mustCity(id)
	if prev, ok := w.occupancy[p]; ok {
		panic(fmt.Sprintf("tile %s already occupied by city %d", p.Key(), prev.Owner))
	}
	w.occupancy[p] = Occupancy{Type: t, Owner: id}
	c.buildings = append(c.buildings, Building{X: p.X, Y: p.Y, Type: t})
	if r, ok := RuleFor(t); ok {
		c.resources.Apply(r.Delta)
	}
	w.dirty = true
}

// AttachBuilding 从存档恢复建筑：只写占地与建筑列表，不再叠加收益（存档里的资源已含收益）。
// 返回 false 表示该格已被占。
func (w *World) AttachBuilding(id CityID, p Point, t BuildingType) bool {
	c := w.mustCity(id)
	if _, ok := w.occupancy[p]; ok {
		return false
	}
	w.occupancy[p] = Occupancy{Type: t, Owner: id}
	c.buildings = append(c.buildings, Building{X: p.X, Y: p.Y, Type: t})
	w.dirty = true
	return true
}

// AddOrder 追加建造单并登记排队索引。
func (w *World) AddOrder(id CityID, o ConstructionOrder) {
	c := w.mustCity(id)
	p := o.Point()
	if owner, ok := w.queued[p]; ok {
		panic(fmt.Sprintf("tile %s already queued by city %d", p.Key(), owner))
	}
	c.queue = append(c.queue, o)
	w.queued[p] = id
	w.dirty = true
}

// RemoveOrder 移除第 idx 张单并注销排队索引。
func (w *World) RemoveOrder(id CityID, idx int) ConstructionOrder {
	c := w.mustCity(id)
	o := c.queue[idx]
	c.queue = append(c.queue[:idx], c.queue[idx+1:]...)
	if owner, ok := w.queued[o.Point()]; ok && owner == id {
		delete(w.queued, o.Point())
	}
	w.dirty = true
	return o
}

// DecrementOrder 剩余回合减一并返回新值。
func (w *World) DecrementOrder(id CityID, idx int) int {
	c := w.mustCity(id)
	c.queue[idx].RemainingTurns--
	w.dirty = true
	return c.queue[idx].RemainingTurns
}

// AddMoney 可为负（扣款）。
func (w *World) AddMoney(id CityID, amount int) {
	if amount == 0 {
		return
	}
	w.mustCity(id).resources.Money += amount
	w.dirty = true
}

// AddIncome 回合收入。
func (w *World) AddIncome(id CityID, food float64, money int) {
	c := w.mustCity(id)
	c.resources.Food += food
	c.resources.Money += money
	w.dirty = true
}

func (w *World) AdvanceTurn() {
	w.turn++
	w.dirty = true
}

// SetTurn 只在从存档恢复时使用。
func (w *World) SetTurn(turn int) {
	w.turn = turn
}

func (w *World) Dirty() bool {
	return w.dirty
}

func (w *World) MarkDirty() {
	w.dirty = true
}

func (w *World) ClearDirty() {
	w.dirty = false
}

func (w *World) mustCity(id CityID) *City {
	c, ok := w.City(id)
	if !ok {
		panic(fmt.Sprintf("city %d not found", id))
	}
	return c
}
