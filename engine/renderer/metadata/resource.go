package metadata

type ResourceType int

/** @brief Resource types known to the asset manager. */
const (
	/** @brief Unrecognised file; never indexed. */
	ResourceTypeNone ResourceType = iota
	/** @brief Compiled SPIR-V shader module. */
	ResourceTypeShader
	/** @brief Encoded image (png, jpg, bmp, webp, tiff). */
	ResourceTypeImage
	/** @brief Arbitrary binary blob. */
	ResourceTypeBinary
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeBinary:
		return "binary"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. []uint32 for shaders, *ImageData for images. */
	Data interface{}
}
