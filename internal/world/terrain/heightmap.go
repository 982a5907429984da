package terrain

import "math"

// HeightmapParams 控制噪声层与中心衰减。
type HeightmapParams struct {
	Octaves     int
	Persistence float64
	Scale       float64
	// Falloff 是到中心归一化距离的扣减系数，角落距离约 1.41。
	Falloff float64
}

func DefaultHeightmapParams() HeightmapParams {
	return HeightmapParams{
		Octaves:     5,
		Persistence: 0.5,
		Scale:       12,
		Falloff:     0.6,
	}
}

// GenerateHeightmap 生成 [0,1] 高程，中心高、边缘低，形成岛屿轮廓。
func GenerateHeightmap(width, height int, seed uint32, p HeightmapParams) *Grid[float64] {
	field := NewNoiseField(seed)
	out := NewGrid[float64](width, height)
	halfW, halfH := float64(width)/2, float64(height)/2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			h := field.Fractal(float64(x), float64(y), p.Octaves, p.Persistence, p.Scale)
			dx := (float64(x) - halfW) / halfW
			dy := (float64(y) - halfH) / halfH
			h -= math.Sqrt(dx*dx+dy*dy) * p.Falloff
			out.Set(x, y, clamp01((h+1)/2))
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
