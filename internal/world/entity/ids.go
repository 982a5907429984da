package entity

import (
	"fmt"
	"strconv"
	"strings"
)

type WorldID int64

// CityID 是城市在世界中的创建序号，从 0 开始。
type CityID int

// Point 是格子坐标。
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key 返回存档与接口使用的 "x,y" 形式。
func (p Point) Key() string {
	return TileKey(p.X, p.Y)
}

func TileKey(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

// ParseTileKey 严格解析 "x,y"，含空格或其他多余字符都报错。
func ParseTileKey(key string) (Point, error) {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return Point{}, fmt.Errorf("tile key %q: missing comma", key)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Point{}, fmt.Errorf("tile key %q: %w", key, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Point{}, fmt.Errorf("tile key %q: %w", key, err)
	}
	return Point{X: x, Y: y}, nil
}
