package messages

// Reply 是 world actor 对所有请求的统一回复。Err 非空时 Payload 为 nil。
type Reply struct {
	Payload any
	Err     error
}

type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ResourcesView struct {
	Food       float64 `json:"food"`
	Production int     `json:"production"`
	Population int     `json:"population"`
	Money      int     `json:"money"`
}

type BuildingView struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Type string `json:"type"`
}

type OrderView struct {
	X              int    `json:"x"`
	Y              int    `json:"y"`
	Type           string `json:"type"`
	Cost           int    `json:"cost"`
	RemainingTurns int    `json:"remainingTurns"`
}

type CityView struct {
	ID              int            `json:"id"`
	Name            string         `json:"name"`
	X               int            `json:"x"`
	Y               int            `json:"y"`
	TerritoryRadius int            `json:"territoryRadius"`
	Resources       ResourcesView  `json:"resources"`
	Buildings       []BuildingView `json:"buildings"`
	BuildQueue      []OrderView    `json:"buildQueue"`
}

type BuildOptionView struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Cost       int    `json:"cost"`
	Turns      int    `json:"turns"`
	Affordable bool   `json:"affordable"`
}

type OutcomeView struct {
	City   int       `json:"cityId"`
	Order  OrderView `json:"order"`
	Reason string    `json:"reason,omitempty"`
}
