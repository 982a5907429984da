package entity

// WorldPersistSnapshot 是存档格式。坐标键一律为 "x,y"；领地不入档，加载后重算。
type WorldPersistSnapshot struct {
	Version       uint64                       `json:"version"`
	WorldID       WorldID                      `json:"worldId"`
	Seed          int64                        `json:"seed"`
	Width         int                          `json:"width"`
	Height        int                          `json:"height"`
	Turn          int                          `json:"turn"`
	Cities        []CitySnapshot               `json:"cities"`
	TileOccupancy map[string]OccupancySnapshot `json:"tileOccupancy"`
}

// CitySnapshot 的可选字段缺省时：半径 2、列表为空、资源为 0。
type CitySnapshot struct {
	Name            string              `json:"name"`
	X               int                 `json:"x"`
	Y               int                 `json:"y"`
	Food            float64             `json:"food"`
	Production      int                 `json:"production"`
	Population      int                 `json:"population"`
	Money           int                 `json:"money"`
	TerritoryRadius *int                `json:"territoryRadius,omitempty"`
	Buildings       []Building          `json:"buildings"`
	BuildQueue      []ConstructionOrder `json:"buildQueue"`
}

type OccupancySnapshot struct {
	Type        BuildingType `json:"type"`
	OwnerCityID CityID       `json:"ownerCityId"`
}

// Radius 取半径，缺省为 DefaultTerritoryRadius。
func (c CitySnapshot) Radius() int {
	if c.TerritoryRadius == nil {
		return DefaultTerritoryRadius
	}
	return *c.TerritoryRadius
}

// Snapshot 总是构造完整快照，不看脏标记。
func (w *World) Snapshot(version uint64) *WorldPersistSnapshot {
	s := &WorldPersistSnapshot{
		Version:       version,
		WorldID:       w.id,
		Seed:          int64(w.Seed()),
		Width:         w.Width(),
		Height:        w.Height(),
		Turn:          w.turn,
		Cities:        make([]CitySnapshot, 0, len(w.cities)),
		TileOccupancy: make(map[string]OccupancySnapshot, len(w.occupancy)),
	}
	for _, c := range w.cities {
		radius := c.radius
		s.Cities = append(s.Cities, CitySnapshot{
			Name:            c.name,
			X:               c.x,
			Y:               c.y,
			Food:            c.resources.Food,
			Production:      c.resources.Production,
			Population:      c.resources.Population,
			Money:           c.resources.Money,
			TerritoryRadius: &radius,
			Buildings:       c.Buildings(),
			BuildQueue:      c.Queue(),
		})
	}
	for p, o := range w.occupancy {
		s.TileOccupancy[p.Key()] = OccupancySnapshot{Type: o.Type, OwnerCityID: o.Owner}
	}
	return s
}

// BuildPersistSnapshot 只在脏时产出快照。
func (w *World) BuildPersistSnapshot(version uint64) (*WorldPersistSnapshot, bool) {
	if w == nil || !w.Dirty() {
		return nil, false
	}
	return w.Snapshot(version), true
}
