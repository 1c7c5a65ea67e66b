package math

import "testing"

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d, want 3", got)
	}
	if got := Clamp(-0.5, 0.0, 1.0); got != 0 {
		t.Errorf("Clamp(-0.5, 0, 1) = %v, want 0", got)
	}
	if got := Clamp[uint32](640, 100, 4096); got != 640 {
		t.Errorf("Clamp(640, 100, 4096) = %d, want 640", got)
	}
}

func TestColor_Shift(t *testing.T) {
	c := NewColor(0.99, 0.5, 0.01, 0.7)

	up := c.Shift(0.025)
	if up.R != 1 {
		t.Errorf("R = %v, want 1 (clamped)", up.R)
	}
	if d := up.G - 0.525; d > 1e-12 || d < -1e-12 {
		t.Errorf("G = %v, want 0.525", up.G)
	}
	if up.A != 0.7 {
		t.Errorf("A = %v, want untouched 0.7", up.A)
	}

	down := c.Shift(-0.025)
	if down.B != 0 {
		t.Errorf("B = %v, want 0 (clamped)", down.B)
	}
}

func TestColor_Float32(t *testing.T) {
	got := NewColor(0.1, 0.2, 0.3, 1).Float32()
	want := [4]float32{0.1, 0.2, 0.3, 1}
	if got != want {
		t.Errorf("Float32 = %v, want %v", got, want)
	}
}
