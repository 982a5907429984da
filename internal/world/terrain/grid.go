package terrain

// Grid 是按行存储的 W×H 二维表。
type Grid[T any] struct {
	width  int
	height int
	cells  []T
}

func NewGrid[T any](width, height int) *Grid[T] {
	return &Grid[T]{
		width:  width,
		height: height,
		cells:  make([]T, width*height),
	}
}

// GridFromRows 以 rows[y][x] 构造；行长不一致时按最短行截断。
func GridFromRows[T any](rows [][]T) *Grid[T] {
	h := len(rows)
	if h == 0 {
		return NewGrid[T](0, 0)
	}
	w := len(rows[0])
	for _, r := range rows {
		w = min(w, len(r))
	}
	g := NewGrid[T](w, h)
	for y := 0; y < h; y++ {
		copy(g.cells[y*w:(y+1)*w], rows[y][:w])
	}
	return g
}

func (g *Grid[T]) Width() int  { return g.width }
func (g *Grid[T]) Height() int { return g.height }

func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// At 越界时 panic，调用方先用 InBounds 判断。
func (g *Grid[T]) At(x, y int) T {
	return g.cells[y*g.width+x]
}

func (g *Grid[T]) Set(x, y int, v T) {
	g.cells[y*g.width+x] = v
}

// Rows 返回 [y][x] 形式的拷贝。
func (g *Grid[T]) Rows() [][]T {
	out := make([][]T, g.height)
	for y := range out {
		out[y] = append([]T(nil), g.cells[y*g.width:(y+1)*g.width]...)
	}
	return out
}

// Equal 逐格比较。
func Equal[T comparable](a, b *Grid[T]) bool {
	if a.width != b.width || a.height != b.height {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return true
}
