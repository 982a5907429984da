package terrain

import "testing"

func TestGenerate_同seed逐格一致(t *testing.T) {
	a, err := Generate(DefaultParams(64, 48, 31337))
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}
	b, err := Generate(DefaultParams(64, 48, 31337))
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}
	if !Equal(a.Elevation, b.Elevation) {
		t.Fatalf("高程不一致")
	}
	if !Equal(a.Rivers, b.Rivers) {
		t.Fatalf("河道不一致")
	}
	if !Equal(a.Terrain, b.Terrain) {
		t.Fatalf("地形不一致")
	}
}

func TestGenerate_高程在0到1_地形码合法(t *testing.T) {
	m, err := Generate(DefaultParams(40, 40, 7))
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if e := m.Elevation.At(x, y); e < 0 || e > 1 {
				t.Fatalf("(%d,%d) 高程越界 %v", x, y, e)
			}
			if !m.Terrain.At(x, y).Valid() {
				t.Fatalf("(%d,%d) 非法地形码 %d", x, y, m.Terrain.At(x, y))
			}
		}
	}
}

func TestGenerate_非法参数(t *testing.T) {
	if _, err := Generate(DefaultParams(0, 10, 1)); err == nil {
		t.Fatalf("期望宽度 0 报错")
	}
	p := DefaultParams(10, 10, 1)
	p.Thresholds.Sand = 0.1
	if _, err := Generate(p); err == nil {
		t.Fatalf("期望阈值乱序报错")
	}
}

func TestGenerate_河流只在高于RiverMin处覆盖地形(t *testing.T) {
	m, err := Generate(DefaultParams(100, 100, 424242))
	if err != nil {
		t.Fatalf("Generate err=%v", err)
	}
	th := DefaultThresholds()
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Terrain.At(x, y) == River && (!m.Rivers.At(x, y) || m.Elevation.At(x, y) <= th.RiverMin) {
				t.Fatalf("(%d,%d) 河流格不满足掩码与高程条件", x, y)
			}
		}
	}
}
