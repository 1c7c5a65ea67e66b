package metadata

// ImageData is a decoded image in tightly packed RGBA8, row-major, top row first.
type ImageData struct {
	Width  uint32
	Height uint32
	Pixels []uint8
}

// Size returns the expected byte length of Pixels.
func (img *ImageData) Size() uint64 {
	return uint64(img.Width) * uint64(img.Height) * 4
}

// Valid reports whether the pixel buffer matches the dimensions.
func (img *ImageData) Valid() bool {
	return img != nil && img.Width > 0 && img.Height > 0 && uint64(len(img.Pixels)) == img.Size()
}
