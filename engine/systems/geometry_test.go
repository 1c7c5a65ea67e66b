package systems

import (
	"errors"
	gomath "math"
	"reflect"
	"testing"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

var kinds = []metadata.VertexKind{metadata.VertexKindColor, metadata.VertexKindTextured}

func TestGeneratePolygon_Counts(t *testing.T) {
	for _, kind := range kinds {
		for sides := uint32(3); sides <= 64; sides++ {
			p, err := GeneratePolygon(sides, kind)
			if err != nil {
				t.Fatalf("GeneratePolygon(%d, %s) failed: %v", sides, kind, err)
			}
			if got := len(p.Vertices); got != int(sides)+1 {
				t.Errorf("sides=%d %s: %d vertices, want %d", sides, kind, got, sides+1)
			}
			if got := len(p.Indices); got != int(sides)*3 {
				t.Errorf("sides=%d %s: %d indices, want %d", sides, kind, got, sides*3)
			}
			for _, idx := range p.Indices {
				if uint32(idx) >= sides+1 {
					t.Errorf("sides=%d %s: index %d out of range", sides, kind, idx)
				}
			}
		}
	}
}

func TestGeneratePolygon_FanCoversEveryRimEdgeOnce(t *testing.T) {
	for sides := uint32(3); sides <= 32; sides++ {
		p, err := GeneratePolygon(sides, metadata.VertexKindColor)
		if err != nil {
			t.Fatalf("GeneratePolygon(%d) failed: %v", sides, err)
		}
		edges := make(map[[2]uint16]int)
		for tri := 0; tri < len(p.Indices); tri += 3 {
			a, b, c := p.Indices[tri], p.Indices[tri+1], p.Indices[tri+2]
			if a != 0 {
				t.Fatalf("sides=%d: triangle %d does not start at the centre: %v", sides, tri/3, p.Indices[tri:tri+3])
			}
			if b == 0 || c == 0 {
				t.Fatalf("sides=%d: degenerate triangle %v", sides, p.Indices[tri:tri+3])
			}
			lo, hi := b, c
			if lo > hi {
				lo, hi = hi, lo
			}
			edges[[2]uint16{lo, hi}]++
		}
		if len(edges) != int(sides) {
			t.Errorf("sides=%d: %d distinct rim edges, want %d", sides, len(edges), sides)
		}
		for i := uint16(1); i <= uint16(sides); i++ {
			next := i%uint16(sides) + 1
			lo, hi := i, next
			if lo > hi {
				lo, hi = hi, lo
			}
			if n := edges[[2]uint16{lo, hi}]; n != 1 {
				t.Errorf("sides=%d: rim edge (%d,%d) covered %d times, want 1", sides, i, next, n)
			}
		}
	}
}

func TestGeneratePolygon_Triangle(t *testing.T) {
	p, err := GeneratePolygon(3, metadata.VertexKindColor)
	if err != nil {
		t.Fatalf("GeneratePolygon(3) failed: %v", err)
	}
	want := []uint16{0, 1, 2, 0, 2, 3, 0, 3, 1}
	if !reflect.DeepEqual(p.Indices, want) {
		t.Errorf("Indices = %v, want %v", p.Indices, want)
	}
	if p.Vertices[0].Color != ColorTable[0] {
		t.Errorf("centre color = %v, want %v", p.Vertices[0].Color, ColorTable[0])
	}
	// rim vertex i (1-based slot i+1) takes ((i+1)%2)+1
	wantRim := []int{2, 1, 2}
	for i, slot := range wantRim {
		if p.Vertices[i+1].Color != ColorTable[slot] {
			t.Errorf("vertex %d color = %v, want ColorTable[%d]", i+1, p.Vertices[i+1].Color, slot)
		}
	}
}

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-6
}

func TestGeneratePolygon_HexagonTextured(t *testing.T) {
	p, err := GeneratePolygon(6, metadata.VertexKindTextured)
	if err != nil {
		t.Fatalf("GeneratePolygon(6) failed: %v", err)
	}
	if len(p.Vertices) != 7 || len(p.Indices) != 18 {
		t.Fatalf("got %d vertices / %d indices, want 7 / 18", len(p.Vertices), len(p.Indices))
	}
	if uv := p.Vertices[0].TexCoord; uv.X != 0.5 || uv.Y != 0.5 {
		t.Errorf("centre uv = %v, want (0.5, 0.5)", uv)
	}
	if uv := p.Vertices[1].TexCoord; !near(uv.X, 1) || !near(uv.Y, 0.5) {
		t.Errorf("vertex 1 uv = %v, want (1, 0.5)", uv)
	}
	if uv := p.Vertices[4].TexCoord; !near(uv.X, 0) || !near(uv.Y, 0.5) {
		t.Errorf("vertex 4 uv = %v, want (0, 0.5)", uv)
	}
	for i := 1; i <= 6; i++ {
		theta := 2 * gomath.Pi * float64(i-1) / 6
		pos := p.Vertices[i].Position
		if !near(pos.X, float32(gomath.Cos(theta))) || !near(pos.Y, float32(gomath.Sin(theta))) || pos.Z != 0 {
			t.Errorf("vertex %d position = %v, want unit circle at %.3f rad", i, pos, theta)
		}
		uv := p.Vertices[i].TexCoord
		if !near(uv.X, pos.X/2+0.5) || !near(uv.Y, pos.Y/2+0.5) {
			t.Errorf("vertex %d uv = %v does not match position %v", i, uv, pos)
		}
	}
	if len(p.VertexBytes()) != 7*20 {
		t.Errorf("packed vertex bytes = %d, want %d", len(p.VertexBytes()), 7*20)
	}
}

func TestGeneratePolygon_Idempotent(t *testing.T) {
	for _, kind := range kinds {
		a, _ := GeneratePolygon(9, kind)
		b, _ := GeneratePolygon(9, kind)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: two generations differ", kind)
		}
	}
}

func TestGeneratePolygon_RejectsInvalidSides(t *testing.T) {
	for _, sides := range []uint32{0, 1, 2, 65536} {
		if _, err := GeneratePolygon(sides, metadata.VertexKindColor); !errors.Is(err, core.ErrInvalidSides) {
			t.Errorf("GeneratePolygon(%d) error = %v, want %v", sides, err, core.ErrInvalidSides)
		}
	}
	if _, err := GeneratePolygon(65535, metadata.VertexKindColor); err != nil {
		t.Errorf("GeneratePolygon(65535) failed: %v", err)
	}
	if _, err := GeneratePolygon(4, metadata.VertexKind(7)); !errors.Is(err, core.ErrUnknownVertexKind) {
		t.Errorf("unknown kind error = %v, want %v", err, core.ErrUnknownVertexKind)
	}
}
