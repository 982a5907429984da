package terrain

import (
	"math"
	"testing"
)

func TestHash2D_纯函数且在区间内(t *testing.T) {
	for x := -20; x < 20; x++ {
		for y := -20; y < 20; y++ {
			v := Hash2D(x, y, 99)
			if v < -1 || v > 1 {
				t.Fatalf("Hash2D(%d,%d) 越界: %v", x, y, v)
			}
			if v != Hash2D(x, y, 99) {
				t.Fatalf("Hash2D(%d,%d) 非确定", x, y)
			}
		}
	}
	if Hash2D(3, 4, 1) == Hash2D(3, 4, 2) && Hash2D(5, 6, 1) == Hash2D(5, 6, 2) {
		t.Fatalf("不同 seed 应产生不同的值")
	}
}

func TestSample_格点处等于哈希值(t *testing.T) {
	f := NewNoiseField(5)
	for x := 0; x < 10; x++ {
		if got, want := f.Sample(float64(x), 3), Hash2D(x, 3, 5); math.Abs(got-want) > 1e-12 {
			t.Fatalf("格点 (%d,3) got=%v want=%v", x, got, want)
		}
	}
}

func TestFractal_1000次采样均在区间内(t *testing.T) {
	f := NewNoiseField(2024)
	r := NewMulberry32(1)
	for i := 0; i < 1000; i++ {
		x, y := r.Next()*500-250, r.Next()*500-250
		v := f.Fractal(x, y, 4, 0.5, 8)
		if v < -1 || v > 1 {
			t.Fatalf("Fractal(%v,%v) 越界: %v", x, y, v)
		}
	}
}

func TestFractal_零octave返回0(t *testing.T) {
	if v := NewNoiseField(1).Fractal(1, 1, 0, 0.5, 8); v != 0 {
		t.Fatalf("期望 0，got=%v", v)
	}
}
