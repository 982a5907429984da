package entity

import "sort"

const DefaultTerritoryRadius = 2

// DefaultCityName 用于存档里没有名字的城市。
const DefaultCityName = "Cidade"

// City 只能通过 World 修改，World 负责维护占地与排队索引。
type City struct {
	id        CityID
	name      string
	x, y      int
	resources Resources
	radius    int
	territory map[Point]struct{}
	buildings []Building
	queue     []ConstructionOrder
}

func (c *City) ID() CityID           { return c.id }
func (c *City) Name() string         { return c.name }
func (c *City) X() int               { return c.x }
func (c *City) Y() int               { return c.y }
func (c *City) Position() Point      { return Point{X: c.x, Y: c.y} }
func (c *City) Resources() Resources { return c.resources }
func (c *City) TerritoryRadius() int { return c.radius }

// Buildings 返回拷贝，按落成顺序。
func (c *City) Buildings() []Building {
	return append([]Building(nil), c.buildings...)
}

// Queue 返回拷贝，按入队顺序。
func (c *City) Queue() []ConstructionOrder {
	return append([]ConstructionOrder(nil), c.queue...)
}

// InTerritory 领地未计算属于编程错误。
func (c *City) InTerritory(p Point) bool {
	if c.territory == nil {
		panic("city territory not computed")
	}
	_, ok := c.territory[p]
	return ok
}

// Territory 按行优先排序返回。
func (c *City) Territory() []Point {
	out := make([]Point, 0, len(c.territory))
	for p := range c.territory {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
