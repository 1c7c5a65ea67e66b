package metadata

import (
	"encoding/binary"
	"fmt"
	gomath "math"
	"strings"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/math"
)

// VertexKind selects which attribute follows the position in every vertex.
type VertexKind uint8

const (
	VertexKindColor VertexKind = iota
	VertexKindTextured
)

func (k VertexKind) String() string {
	switch k {
	case VertexKindColor:
		return "color"
	case VertexKindTextured:
		return "textured"
	default:
		return fmt.Sprintf("VertexKind(%d)", uint8(k))
	}
}

func ParseVertexKind(s string) (VertexKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "color", "colour":
		return VertexKindColor, nil
	case "textured", "texture":
		return VertexKindTextured, nil
	default:
		return 0, fmt.Errorf("%w: %q", core.ErrUnknownVertexKind, s)
	}
}

/**
 * @brief A single polygon vertex. Only the attribute selected by the
 * owning polygon's kind is meaningful; the other stays zero and is
 * never uploaded.
 */
type Vertex struct {
	Position math.Vec3
	Color    math.Vec3
	TexCoord math.Vec2
}

/**
 * @brief A fan-triangulated regular polygon centred at the origin.
 * Vertex 0 is the centre, vertices 1..Sides lie on the unit circle.
 */
type Polygon struct {
	Sides    uint32
	Kind     VertexKind
	Vertices []Vertex
	Indices  []uint16
}

func (p *Polygon) VertexCount() uint32 {
	return uint32(len(p.Vertices))
}

func (p *Polygon) IndexCount() uint32 {
	return uint32(len(p.Indices))
}

// Layout returns the vertex layout matching the polygon's kind.
func (p *Polygon) Layout() VertexLayout {
	return LayoutFor(p.Kind)
}

// VertexBytes packs the vertices as described by Layout, little-endian.
func (p *Polygon) VertexBytes() []byte {
	layout := p.Layout()
	out := make([]byte, int(layout.Stride)*len(p.Vertices))
	for i := range p.Vertices {
		base := i * int(layout.Stride)
		for _, attr := range layout.Attributes {
			var elems []float32
			switch attr.Semantic {
			case AttributePosition:
				elems = p.Vertices[i].Position.Elements()
			case AttributeColor:
				elems = p.Vertices[i].Color.Elements()
			case AttributeTexCoord:
				elems = p.Vertices[i].TexCoord.Elements()
			}
			off := base + int(attr.Offset)
			for j := 0; j < attr.Format.Components(); j++ {
				binary.LittleEndian.PutUint32(out[off+j*4:], gomath.Float32bits(elems[j]))
			}
		}
	}
	return out
}

// IndexBytes packs the u16 indices, little-endian.
func (p *Polygon) IndexBytes() []byte {
	out := make([]byte, 2*len(p.Indices))
	for i, idx := range p.Indices {
		binary.LittleEndian.PutUint16(out[i*2:], idx)
	}
	return out
}

func (p *Polygon) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Polygon { sides: %d, kind: %s, vertices: [", p.Sides, p.Kind)
	for i, v := range p.Vertices {
		if i > 0 {
			b.WriteString(", ")
		}
		switch p.Kind {
		case VertexKindTextured:
			fmt.Fprintf(&b, "Vertex { position: [%g, %g, %g], tex_coords: [%g, %g] }",
				v.Position.X, v.Position.Y, v.Position.Z, v.TexCoord.X, v.TexCoord.Y)
		default:
			fmt.Fprintf(&b, "Vertex { position: [%g, %g, %g], color: [%g, %g, %g] }",
				v.Position.X, v.Position.Y, v.Position.Z, v.Color.X, v.Color.Y, v.Color.Z)
		}
	}
	b.WriteString("], indices: [")
	for i, idx := range p.Indices {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", idx)
	}
	b.WriteString("] }")
	return b.String()
}
