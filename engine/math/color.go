package math

// Color is a linear RGBA value with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

func NewColor(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Shift adds delta to the red, green and blue channels, clamping each to [0, 1].
// Alpha is left untouched.
func (c Color) Shift(delta float64) Color {
	return Color{
		R: Clamp(c.R+delta, 0, 1),
		G: Clamp(c.G+delta, 0, 1),
		B: Clamp(c.B+delta, 0, 1),
		A: c.A,
	}
}

// Float32 returns the channels in RGBA order, ready for a clear value.
func (c Color) Float32() [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}
