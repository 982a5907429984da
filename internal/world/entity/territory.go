package entity

// ComputeTerritory 返回以 (x,y) 为中心、切比雪夫半径 r 的方块，裁剪到 w×h 内。
// 结果只依赖入参，重复调用得到相同集合。
func ComputeTerritory(x, y, r, w, h int) map[Point]struct{} {
	if r < 0 {
		r = 0
	}
	set := make(map[Point]struct{}, (2*r+1)*(2*r+1))
	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			tx, ty := x+ox, y+oy
			if tx < 0 || ty < 0 || tx >= w || ty >= h {
				continue
			}
			set[Point{X: tx, Y: ty}] = struct{}{}
		}
	}
	return set
}
