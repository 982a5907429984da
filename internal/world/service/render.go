package service

import (
	"github.com/ooaoJ/Cities-Resources/internal/world/entity"
)

// CityGlyph 标记城市中心。
const CityGlyph = '@'

// RenderRows 逐行输出地图：城市优先于建筑，建筑优先于地形。
func RenderRows(w *entity.World) []string {
	g := w.TerrainGrid()
	rows := make([]string, g.Height())
	line := make([]byte, g.Width())
	occ := w.TileOccupancy()
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			line[x] = g.At(x, y).Glyph()
			if o, ok := occ[entity.TileKey(x, y)]; ok {
				line[x] = o.Type.Letter()
			}
		}
		rows[y] = string(line)
	}
	for _, c := range w.Cities() {
		b := []byte(rows[c.Y()])
		b[c.X()] = CityGlyph
		rows[c.Y()] = string(b)
	}
	return rows
}
