package terrain

// RiverParams 控制河流数量与单条河的行走。
type RiverParams struct {
	// AreaPerRiver：每多少格一条河，至少一条。
	AreaPerRiver int
	// SourceAttempts：找高地源头的最大尝试次数，找不到就放弃这条河。
	SourceAttempts int
	MaxSteps       int
	// SourceMin：源头高程须严格大于它。
	SourceMin float64
	// MouthMax：走到高程低于它时入海停止。
	MouthMax float64
}

func DefaultRiverParams() RiverParams {
	return RiverParams{
		AreaPerRiver:   600,
		SourceAttempts: 400,
		MaxSteps:       1000,
		SourceMin:      0.7,
		MouthMax:       0.35,
	}
}

var cardinals = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// RiverCount = max(1, floor(W*H/AreaPerRiver))。
func RiverCount(width, height int, p RiverParams) int {
	if p.AreaPerRiver <= 0 {
		return 1
	}
	return max(1, width*height/p.AreaPerRiver)
}

// CarveRivers 从高地沿最陡下降方向走出河道掩码。源头选择与平地随机步共用 rng。
func CarveRivers(elev *Grid[float64], rng *Mulberry32, p RiverParams) *Grid[bool] {
	w, h := elev.Width(), elev.Height()
	mask := NewGrid[bool](w, h)
	if w == 0 || h == 0 {
		return mask
	}
	for i := RiverCount(w, h, p); i > 0; i-- {
		x, y, ok := findSource(elev, rng, p)
		if !ok {
			continue
		}
		walkRiver(elev, mask, rng, x, y, p)
	}
	return mask
}

func findSource(elev *Grid[float64], rng *Mulberry32, p RiverParams) (int, int, bool) {
	for attempt := 0; attempt < p.SourceAttempts; attempt++ {
		x := rng.Intn(elev.Width())
		y := rng.Intn(elev.Height())
		if elev.At(x, y) > p.SourceMin {
			return x, y, true
		}
	}
	return 0, 0, false
}

func walkRiver(elev *Grid[float64], mask *Grid[bool], rng *Mulberry32, x, y int, p RiverParams) {
	w, h := elev.Width(), elev.Height()
	for step := 0; step < p.MaxSteps; step++ {
		mask.Set(x, y, true)
		if elev.At(x, y) < p.MouthMax {
			return
		}

		bx, by := lowestNeighbour(elev, x, y)
		if bx == x && by == y {
			// 局部极小：随机走一个正交方向，夹在边界内
			d := cardinals[rng.Intn(len(cardinals))]
			x = clampInt(x+d[0], 0, w-1)
			y = clampInt(y+d[1], 0, h-1)
		} else {
			x, y = bx, by
		}

		if x == 0 || y == 0 || x == w-1 || y == h-1 {
			return
		}
	}
}

// lowestNeighbour 在 8 邻域里找严格更低的格子，没有则返回自身。
func lowestNeighbour(elev *Grid[float64], x, y int) (int, int) {
	bx, by, best := x, y, elev.At(x, y)
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			nx, ny := x+ox, y+oy
			if !elev.InBounds(nx, ny) {
				continue
			}
			if v := elev.At(nx, ny); v < best {
				bx, by, best = nx, ny, v
			}
		}
	}
	return bx, by
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
