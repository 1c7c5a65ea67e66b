package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Elements returns the components in declaration order.
func (v Vec2) Elements() []float32 {
	return []float32{v.X, v.Y}
}

// Elements returns the components in declaration order.
func (v Vec3) Elements() []float32 {
	return []float32{v.X, v.Y, v.Z}
}
