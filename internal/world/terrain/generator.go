package terrain

import "fmt"

// Params 汇总一次地图生成的全部输入。
type Params struct {
	Width      int
	Height     int
	Seed       uint32
	Heightmap  HeightmapParams
	Rivers     RiverParams
	Thresholds Thresholds
}

func DefaultParams(width, height int, seed uint32) Params {
	return Params{
		Width:      width,
		Height:     height,
		Seed:       seed,
		Heightmap:  DefaultHeightmapParams(),
		Rivers:     DefaultRiverParams(),
		Thresholds: DefaultThresholds(),
	}
}

// Map 是生成结果，生成后只读。
type Map struct {
	Seed      uint32
	Elevation *Grid[float64]
	Rivers    *Grid[bool]
	Terrain   *Grid[Code]
}

func (m *Map) Width() int  { return m.Terrain.Width() }
func (m *Map) Height() int { return m.Terrain.Height() }

// Generate 依次跑高程、河流、地形分类。同样的 Params 产出逐格相同的结果。
func Generate(p Params) (*Map, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", p.Width, p.Height)
	}
	if p.Heightmap.Octaves <= 0 || p.Heightmap.Scale <= 0 {
		return nil, fmt.Errorf("invalid heightmap params: octaves=%d scale=%v", p.Heightmap.Octaves, p.Heightmap.Scale)
	}
	if err := p.Thresholds.Validate(); err != nil {
		return nil, err
	}

	elev := GenerateHeightmap(p.Width, p.Height, p.Seed, p.Heightmap)
	rivers := CarveRivers(elev, NewMulberry32(p.Seed), p.Rivers)
	return &Map{
		Seed:      p.Seed,
		Elevation: elev,
		Rivers:    rivers,
		Terrain:   p.Thresholds.ClassifyGrid(elev, rivers),
	}, nil
}

// Histogram 统计每种地形的格数。
func (m *Map) Histogram() map[Code]int {
	out := make(map[Code]int, len(codeNames))
	for _, c := range m.Terrain.cells {
		out[c]++
	}
	return out
}
