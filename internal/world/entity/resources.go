package entity

// Resources 是城市库存。按回合累加，不做上限截断。
type Resources struct {
	Food       float64 `json:"food"`
	Production int     `json:"production"`
	Population int     `json:"population"`
	Money      int     `json:"money"`
}

// ResourceDelta 是建筑落成时一次性加到城市上的增量。
type ResourceDelta struct {
	Food       float64
	Production int
	Population int
	Money      int
}

func (r *Resources) Apply(d ResourceDelta) {
	r.Food += d.Food
	r.Production += d.Production
	r.Population += d.Population
	r.Money += d.Money
}
