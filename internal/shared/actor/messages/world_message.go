package messages

// WorldMessage 由 manager 按 WorldID 路由到对应的 world actor。
type WorldMessage interface {
	WorldID() int64
	// MayCreate 为 true 时，世界不存在就生成一个新的。
	MayCreate() bool
}

type WorldBaseMessage struct {
	World  int64
	Create bool
}

func (w WorldBaseMessage) WorldID() int64 {
	return w.World
}

func (w WorldBaseMessage) MayCreate() bool {
	return w.Create
}

type HWTerrain struct {
	WorldBaseMessage
	X, Y int
}

type WHTerrain struct {
	Terrain   string  `json:"terrain"`
	Elevation float64 `json:"elevation"`
}

type HWOccupancy struct {
	WorldBaseMessage
}

type WHOccupancy struct {
	// Tiles 的键为 "x,y"。
	Tiles map[string]BuildingOwner `json:"tiles"`
}

type BuildingOwner struct {
	Type        string `json:"type"`
	OwnerCityID int    `json:"ownerCityId"`
}

type HWTerritory struct {
	WorldBaseMessage
	City int
}

type WHTerritory struct {
	City  int    `json:"cityId"`
	Tiles []Tile `json:"tiles"`
}

type HWCities struct {
	WorldBaseMessage
}

type WHCities struct {
	Turn   int        `json:"turn"`
	Cities []CityView `json:"cities"`
}

type HWPlace struct {
	WorldBaseMessage
	City int
	X, Y int
	Type string
}

type WHPlace struct {
	Building BuildingView  `json:"building"`
	City     ResourcesView `json:"resources"`
}

type HWEnqueue struct {
	WorldBaseMessage
	City int
	X, Y int
	Type string
}

type WHEnqueue struct {
	Order OrderView `json:"order"`
	Money int       `json:"money"`
}

type HWTick struct {
	WorldBaseMessage
}

type WHTick struct {
	Turn      int           `json:"turn"`
	Committed []OutcomeView `json:"committed"`
	Refunded  []OutcomeView `json:"refunded"`
}

type HWBuildOptions struct {
	WorldBaseMessage
	City int
	X, Y int
}

type WHBuildOptions struct {
	Options []BuildOptionView `json:"options"`
}

type HWNearestTile struct {
	WorldBaseMessage
	City int
	Type string
}

type WHNearestTile struct {
	Tile
}

type HWMap struct {
	WorldBaseMessage
}

type WHMap struct {
	Seed   uint32   `json:"seed"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Turn   int      `json:"turn"`
	Rows   []string `json:"rows"`
}

// HWExport 导出当前世界的存档 JSON。
type HWExport struct {
	WorldBaseMessage
}

type WHExport struct {
	Snapshot []byte
}

// HWImport 用存档 JSON 替换当前世界，返回修正告警。
type HWImport struct {
	WorldBaseMessage
	Snapshot []byte
}

type WHImport struct {
	Turn     int      `json:"turn"`
	Warnings []string `json:"warnings"`
}
