package terrain

import (
	"math"
	"testing"
)

func TestMulberry32_已知序列(t *testing.T) {
	r := NewMulberry32(42)
	want := []float64{0.6011037519201636, 0.44829055899754167, 0.8524657934904099}
	for i, w := range want {
		if got := r.Next(); math.Abs(got-w) > 1e-15 {
			t.Fatalf("第 %d 个值 got=%v want=%v", i, got, w)
		}
	}
}

func TestMulberry32_同seed同序列_范围在0到1(t *testing.T) {
	a, b := NewMulberry32(123456789), NewMulberry32(123456789)
	for i := 0; i < 10000; i++ {
		x, y := a.Next(), b.Next()
		if x != y {
			t.Fatalf("第 %d 次抽样不一致 %v != %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("越界: %v", x)
		}
	}
}

func TestMulberry32_Intn(t *testing.T) {
	r := NewMulberry32(7)
	for i := 0; i < 1000; i++ {
		if v := r.Intn(4); v < 0 || v >= 4 {
			t.Fatalf("Intn(4) 越界: %d", v)
		}
	}
	if r.Intn(0) != 0 {
		t.Fatalf("Intn(0) 应为 0")
	}
}
