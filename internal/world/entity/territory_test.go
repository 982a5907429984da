package entity

import (
	"reflect"
	"testing"
)

func TestComputeTerritory_内部25格(t *testing.T) {
	set := ComputeTerritory(10, 10, 2, 30, 30)
	if len(set) != 25 {
		t.Fatalf("期望 25 格，got=%d", len(set))
	}
	for y := 8; y <= 12; y++ {
		for x := 8; x <= 12; x++ {
			if _, ok := set[Point{X: x, Y: y}]; !ok {
				t.Fatalf("缺少 (%d,%d)", x, y)
			}
		}
	}
}

func TestComputeTerritory_角落裁剪为9格(t *testing.T) {
	set := ComputeTerritory(0, 0, 2, 30, 30)
	if len(set) != 9 {
		t.Fatalf("期望 9 格，got=%d", len(set))
	}
	for p := range set {
		if p.X < 0 || p.Y < 0 || p.X > 2 || p.Y > 2 {
			t.Fatalf("越界格 %v", p)
		}
	}
}

func TestComputeTerritory_半径0只有自身_幂等(t *testing.T) {
	set := ComputeTerritory(3, 4, 0, 10, 10)
	if len(set) != 1 {
		t.Fatalf("期望 1 格，got=%d", len(set))
	}
	if !reflect.DeepEqual(ComputeTerritory(5, 5, 3, 8, 8), ComputeTerritory(5, 5, 3, 8, 8)) {
		t.Fatalf("重复计算结果不一致")
	}
}

func TestParseTileKey(t *testing.T) {
	p, err := ParseTileKey("12,7")
	if err != nil || p != (Point{X: 12, Y: 7}) {
		t.Fatalf("解析失败 p=%v err=%v", p, err)
	}
	if p.Key() != "12,7" {
		t.Fatalf("Key 往返不一致: %q", p.Key())
	}
	for _, bad := range []string{"", "12", "a,1", "1,b", " 1, 2", "1 ,2", "1,2 ", "1,2,3"} {
		if _, err := ParseTileKey(bad); err == nil {
			t.Fatalf("期望 %q 解析失败", bad)
		}
	}
}
