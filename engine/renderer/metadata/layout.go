package metadata

// VertexFormat is the numeric format of one vertex attribute.
type VertexFormat uint8

const (
	VertexFormatFloat32x2 VertexFormat = iota
	VertexFormatFloat32x3
)

// Components returns how many float32 values the format holds.
func (f VertexFormat) Components() int {
	switch f {
	case VertexFormatFloat32x2:
		return 2
	case VertexFormatFloat32x3:
		return 3
	default:
		return 0
	}
}

// Size returns the attribute size in bytes.
func (f VertexFormat) Size() uint32 {
	return uint32(f.Components()) * 4
}

func (f VertexFormat) String() string {
	switch f {
	case VertexFormatFloat32x2:
		return "Float32x2"
	case VertexFormatFloat32x3:
		return "Float32x3"
	default:
		return "Unknown"
	}
}

// AttributeSemantic names the Vertex field an attribute is read from.
type AttributeSemantic uint8

const (
	AttributePosition AttributeSemantic = iota
	AttributeColor
	AttributeTexCoord
)

/**
 * @brief One shader input: the byte offset inside a vertex, the shader
 * location it binds to and its numeric format.
 */
type VertexAttribute struct {
	Offset   uint32
	Location uint32
	Format   VertexFormat
	Semantic AttributeSemantic
}

/**
 * @brief Describes how packed vertices map to pipeline inputs.
 */
type VertexLayout struct {
	/** @brief Distance in bytes between two consecutive vertices. */
	Stride     uint32
	Attributes []VertexAttribute
}

// LayoutFor builds the layout for kind: position as Float32x3 at location 0,
// followed by color (Float32x3) or texture coordinates (Float32x2) at location 1.
func LayoutFor(kind VertexKind) VertexLayout {
	position := VertexAttribute{
		Offset:   0,
		Location: 0,
		Format:   VertexFormatFloat32x3,
		Semantic: AttributePosition,
	}
	second := VertexAttribute{
		Offset:   position.Format.Size(),
		Location: 1,
		Format:   VertexFormatFloat32x3,
		Semantic: AttributeColor,
	}
	if kind == VertexKindTextured {
		second.Format = VertexFormatFloat32x2
		second.Semantic = AttributeTexCoord
	}
	return VertexLayout{
		Stride:     position.Format.Size() + second.Format.Size(),
		Attributes: []VertexAttribute{position, second},
	}
}
