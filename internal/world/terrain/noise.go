package terrain

import "math"

// NoiseField 是按 seed 固定的值噪声场。
type NoiseField struct {
	seed uint32
}

func NewNoiseField(seed uint32) NoiseField {
	return NoiseField{seed: seed}
}

// Hash2D 把整数格点映射到 [-1,1]，纯函数。
func Hash2D(x, y int, seed uint32) float64 {
	n := uint32(int64(x)*374761393+int64(y)*668265263) ^ seed
	return NewMulberry32(n).Next()*2 - 1
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// Sample 对四个相邻格点做 smoothstep 缓动的双线性插值。
func (f NoiseField) Sample(x, y float64) float64 {
	xf, yf := math.Floor(x), math.Floor(y)
	ix, iy := int(xf), int(yf)

	v00 := Hash2D(ix, iy, f.seed)
	v10 := Hash2D(ix+1, iy, f.seed)
	v01 := Hash2D(ix, iy+1, f.seed)
	v11 := Hash2D(ix+1, iy+1, f.seed)

	sx, sy := smoothstep(x-xf), smoothstep(y-yf)
	top := v00*(1-sx) + v10*sx
	bottom := v01*(1-sx) + v11*sx
	return top*(1-sy) + bottom*sy
}

// Fractal 叠加 octaves 层噪声：频率从 1/scale 起逐层翻倍，振幅按 persistence 衰减，结果按振幅和归一。
func (f NoiseField) Fractal(x, y float64, octaves int, persistence, scale float64) float64 {
	if octaves <= 0 {
		return 0
	}
	amplitude, frequency := 1.0, 1/scale
	total, norm := 0.0, 0.0
	for o := 0; o < octaves; o++ {
		total += f.Sample(x*frequency, y*frequency) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / norm
}
