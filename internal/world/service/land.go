package service

import (
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
	"github.com/ooaoJ/Cities-Resources/internal/world/terrain"
)

// ResolveLand 从 (x,y) 出发在 8 邻域上做 BFS，返回第一个被发现的非水格子。
// 起点本身是陆地时原样返回；整张图没有可达陆地时返回 ErrGenerationFailed。
func ResolveLand(g *terrain.Grid[terrain.Code], x, y int) (entity.Point, error) {
	start := entity.Point{X: x, Y: y}
	if !g.InBounds(x, y) {
		return start, ErrGenerationFailed.WithData("x", x).WithData("y", y).WithData("detail", "start out of bounds")
	}
	if !g.At(x, y).IsWater() {
		return start, nil
	}

	seen := map[entity.Point]struct{}{start: {}}
	queue := []entity.Point{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for oy := -1; oy <= 1; oy++ {
			for ox := -1; ox <= 1; ox++ {
				if ox == 0 && oy == 0 {
					continue
				}
				n := entity.Point{X: p.X + ox, Y: p.Y + oy}
				if !g.InBounds(n.X, n.Y) {
					continue
				}
				if _, ok := seen[n]; ok {
					continue
				}
				seen[n] = struct{}{}
				if !g.At(n.X, n.Y).IsWater() {
					return n, nil
				}
				queue = append(queue, n)
			}
		}
	}
	return start, ErrGenerationFailed.WithData("x", x).WithData("y", y)
}

// MoveCityToLand 城市在水上时移到最近陆地。
func MoveCityToLand(w *entity.World, id entity.CityID) (moved bool, err error) {
	c, ok := w.City(id)
	if !ok {
		return false, reject(ReasonCityNotFound, map[string]any{"city_id": id})
	}
	p, err := ResolveLand(w.TerrainGrid(), c.X(), c.Y())
	if err != nil {
		return false, err
	}
	if p == c.Position() {
		return false, nil
	}
	w.MoveCity(id, p.X, p.Y)
	return true, nil
}
