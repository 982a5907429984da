package terrain

import "testing"

// 斜坡：x 越大越低，源头只在最左列。
func slopeGrid(w, h int) *Grid[float64] {
	g := NewGrid[float64](w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, 1-float64(x)/float64(w))
		}
	}
	return g
}

func TestRiverCount(t *testing.T) {
	p := DefaultRiverParams()
	if got := RiverCount(100, 100, p); got != 16 {
		t.Fatalf("100x100 期望 16 条，got=%d", got)
	}
	if got := RiverCount(10, 10, p); got != 1 {
		t.Fatalf("小图至少 1 条，got=%d", got)
	}
}

func TestCarveRivers_沿最陡方向下行(t *testing.T) {
	elev := slopeGrid(20, 5)
	p := DefaultRiverParams()
	p.SourceAttempts = 10000
	mask := CarveRivers(elev, NewMulberry32(3), p)

	marked := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 20; x++ {
			if mask.At(x, y) {
				marked++
			}
		}
	}
	if marked == 0 {
		t.Fatalf("期望至少标记一格河道")
	}
	// 每一行的河道格在 x 方向连续，从源头一路向右
	for y := 0; y < 5; y++ {
		seen, gap := false, false
		for x := 0; x < 20; x++ {
			switch {
			case mask.At(x, y) && gap:
				t.Fatalf("第 %d 行河道不连续", y)
			case mask.At(x, y):
				seen = true
			case seen:
				gap = true
			}
		}
	}
}

func TestCarveRivers_无高地时不出河(t *testing.T) {
	flat := NewGrid[float64](30, 30)
	mask := CarveRivers(flat, NewMulberry32(1), DefaultRiverParams())
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			if mask.At(x, y) {
				t.Fatalf("平原不应有河道 (%d,%d)", x, y)
			}
		}
	}
}

func TestLowestNeighbour_严格更低才移动(t *testing.T) {
	g := NewGrid[float64](3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			g.Set(x, y, 0.5)
		}
	}
	if x, y := lowestNeighbour(g, 1, 1); x != 1 || y != 1 {
		t.Fatalf("等高平地应停在原地，got=(%d,%d)", x, y)
	}
	g.Set(2, 0, 0.1)
	g.Set(0, 2, 0.1)
	if x, y := lowestNeighbour(g, 1, 1); x != 2 || y != 0 {
		t.Fatalf("并列最低取扫描序第一个，got=(%d,%d)", x, y)
	}
}

func plateau(w, h int, v float64) *Grid[float64] {
	g := NewGrid[float64](w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, v)
		}
	}
	return g
}

// 四连通泛洪，返回从 (sx,sy) 出发能到达的河道格数。
func riverReach(mask *Grid[bool], sx, sy int) int {
	seen := NewGrid[bool](mask.Width(), mask.Height())
	stack := [][2]int{{sx, sy}}
	seen.Set(sx, sy, true)
	n := 0
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, d := range cardinals {
			nx, ny := c[0]+d[0], c[1]+d[1]
			if mask.InBounds(nx, ny) && mask.At(nx, ny) && !seen.At(nx, ny) {
				seen.Set(nx, ny, true)
				stack = append(stack, [2]int{nx, ny})
			}
		}
	}
	return n
}

func countMarked(mask *Grid[bool]) int {
	n := 0
	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) {
				n++
			}
		}
	}
	return n
}

func TestWalkRiver_高原随机游走正交连通并止于边界(t *testing.T) {
	const n = 15
	p := DefaultRiverParams()
	elev := plateau(n, n, p.SourceMin+0.2)

	for seed := uint32(1); seed <= 20; seed++ {
		mask := NewGrid[bool](n, n)
		walkRiver(elev, mask, NewMulberry32(seed), n/2, n/2, p)

		if !mask.At(n/2, n/2) {
			t.Fatalf("seed=%d 源头未标记", seed)
		}
		marked := countMarked(mask)
		if got := riverReach(mask, n/2, n/2); got != marked {
			t.Fatalf("seed=%d 河道不是正交连通，连通=%d 总数=%d", seed, got, marked)
		}
		// 走到边界即停，边界格本身不标记，最后一格贴着边界
		nearEdge := false
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				if !mask.At(x, y) {
					continue
				}
				if x == 0 || y == 0 || x == n-1 || y == n-1 {
					t.Fatalf("seed=%d 边界格 (%d,%d) 不应标记", seed, x, y)
				}
				if x == 1 || y == 1 || x == n-2 || y == n-2 {
					nearEdge = true
				}
			}
		}
		if !nearEdge {
			t.Fatalf("seed=%d 期望一路走到边界", seed)
		}
	}
}

func TestWalkRiver_高原步数用尽即停(t *testing.T) {
	p := DefaultRiverParams()
	p.MaxSteps = 5
	elev := plateau(101, 101, p.SourceMin+0.2)
	mask := NewGrid[bool](101, 101)
	walkRiver(elev, mask, NewMulberry32(9), 50, 50, p)

	got := countMarked(mask)
	if got < 1 || got > p.MaxSteps {
		t.Fatalf("期望标记 1..%d 格，got=%d", p.MaxSteps, got)
	}
	if reach := riverReach(mask, 50, 50); reach != got {
		t.Fatalf("河道不是正交连通，连通=%d 总数=%d", reach, got)
	}
}

func TestWalkRiver_同种子路径一致(t *testing.T) {
	p := DefaultRiverParams()
	elev := plateau(31, 31, p.SourceMin+0.2)
	for seed := uint32(1); seed <= 5; seed++ {
		a := NewGrid[bool](31, 31)
		b := NewGrid[bool](31, 31)
		walkRiver(elev, a, NewMulberry32(seed), 15, 15, p)
		walkRiver(elev, b, NewMulberry32(seed), 15, 15, p)
		if !Equal(a, b) {
			t.Fatalf("seed=%d 同种子河道应一致", seed)
		}
	}
}
