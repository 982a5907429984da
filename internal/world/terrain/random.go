package terrain

// Mulberry32 是 32 位状态的确定性伪随机源，同一 seed 产出同一序列。
type Mulberry32 struct {
	state uint32
}

func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Next 返回 [0,1) 内的下一个值。
func (r *Mulberry32) Next() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return float64(t^t>>14) / 4294967296
}

// Intn 返回 floor(Next()*n)。
func (r *Mulberry32) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() * float64(n))
}
