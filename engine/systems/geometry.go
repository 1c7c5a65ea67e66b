package systems

import (
	"fmt"
	gomath "math"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/math"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

// ColorTable is the palette used by colored polygons. The centre takes the
// first entry, the rim alternates between the other two.
var ColorTable = [3]math.Vec3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
}

// GeneratePolygon builds a regular polygon with the given number of sides on
// the unit circle, triangulated as a fan around a centre vertex.
// Sides must be in [3, 65535] so every index fits in a u16.
func GeneratePolygon(sides uint32, kind metadata.VertexKind) (*metadata.Polygon, error) {
	if sides < 3 || sides > gomath.MaxUint16 {
		return nil, fmt.Errorf("%w: got %d", core.ErrInvalidSides, sides)
	}
	if kind != metadata.VertexKindColor && kind != metadata.VertexKindTextured {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownVertexKind, kind)
	}

	vertices := make([]metadata.Vertex, 0, sides+1)
	indices := make([]uint16, 0, sides*3)

	center := metadata.Vertex{}
	if kind == metadata.VertexKindTextured {
		center.TexCoord = math.NewVec2(0.5, 0.5)
	} else {
		center.Color = ColorTable[0]
	}
	vertices = append(vertices, center)

	for i := uint32(0); i < sides; i++ {
		angle := 2.0 * gomath.Pi * float64(i) / float64(sides)
		cos, sin := gomath.Cos(angle), gomath.Sin(angle)

		v := metadata.Vertex{
			Position: math.NewVec3(float32(cos), float32(sin), 0),
		}
		if kind == metadata.VertexKindTextured {
			// Map the unit circle onto [0,1] UV space.
			v.TexCoord = math.NewVec2(float32(cos/2+0.5), float32(sin/2+0.5))
		} else {
			v.Color = ColorTable[(i+1)%2+1]
		}
		vertices = append(vertices, v)
	}

	for i := uint32(1); i < sides; i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}
	// Closing triangle back to the first rim vertex.
	indices = append(indices, 0, uint16(sides), 1)

	return &metadata.Polygon{
		Sides:    sides,
		Kind:     kind,
		Vertices: vertices,
		Indices:  indices,
	}, nil
}
