package terrain

import (
	"fmt"
	"strings"
)

// Code 是地形类型，数值与存档兼容，不可重排。
type Code uint8

const (
	Grass    Code = 0
	Forest   Code = 1
	Mountain Code = 2
	Ocean    Code = 3
	River    Code = 4
	Sand     Code = 5
)

var codeNames = [...]string{
	Grass:    "grass",
	Forest:   "forest",
	Mountain: "mountain",
	Ocean:    "ocean",
	River:    "river",
	Sand:     "sand",
}

func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("terrain(%d)", c)
}

// IsWater 海洋与河流都不能建城。
func (c Code) IsWater() bool {
	return c == Ocean || c == River
}

func (c Code) Valid() bool {
	return int(c) < len(codeNames)
}

func ParseCode(s string) (Code, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range codeNames {
		if n == s {
			return Code(i), true
		}
	}
	return 0, false
}

// Thresholds 是高程分带的上界（不含）。
type Thresholds struct {
	RiverMin float64
	Ocean    float64
	Sand     float64
	Grass    float64
	Forest   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		RiverMin: 0.25,
		Ocean:    0.30,
		Sand:     0.33,
		Grass:    0.60,
		Forest:   0.75,
	}
}

// Validate 要求各分带严格递增且落在 [0,1]。
func (t Thresholds) Validate() error {
	seq := []float64{t.Ocean, t.Sand, t.Grass, t.Forest}
	prev := 0.0
	for i, v := range seq {
		if v <= prev || v > 1 {
			return fmt.Errorf("biome thresholds must be strictly increasing in (0,1], index=%d value=%v", i, v)
		}
		prev = v
	}
	if t.RiverMin < 0 || t.RiverMin > 1 {
		return fmt.Errorf("river_min out of range: %v", t.RiverMin)
	}
	return nil
}

// Classify 河道且高程高于 RiverMin 时为河流，否则按高程分带。
func (t Thresholds) Classify(elevation float64, river bool) Code {
	if river && elevation > t.RiverMin {
		return River
	}
	switch {
	case elevation < t.Ocean:
		return Ocean
	case elevation < t.Sand:
		return Sand
	case elevation < t.Grass:
		return Grass
	case elevation < t.Forest:
		return Forest
	default:
		return Mountain
	}
}

// ClassifyGrid 逐格分类。
func (t Thresholds) ClassifyGrid(elev *Grid[float64], rivers *Grid[bool]) *Grid[Code] {
	out := NewGrid[Code](elev.Width(), elev.Height())
	for y := 0; y < elev.Height(); y++ {
		for x := 0; x < elev.Width(); x++ {
			out.Set(x, y, t.Classify(elev.At(x, y), rivers.At(x, y)))
		}
	}
	return out
}

var codeGlyphs = [...]byte{
	Grass:    '.',
	Forest:   'T',
	Mountain: '^',
	Ocean:    '~',
	River:    '=',
	Sand:     ':',
}

// Glyph 是地形的 ASCII 字符，非法值为 '?'。
func (c Code) Glyph() byte {
	if int(c) < len(codeGlyphs) {
		return codeGlyphs[c]
	}
	return '?'
}
