package loaders

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	// Extra formats accepted for textures.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

type TextureLoader struct{}

// Load decodes an image file into tightly packed RGBA8 pixels.
func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := DecodeImage(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: img.Size(),
		Data:     img,
	}, nil
}

// DecodeImage decodes any registered format and converts it to RGBA8, top
// row first.
func DecodeImage(r io.Reader) (*metadata.ImageData, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%s image has no pixels", format)
	}

	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
	}
	return &metadata.ImageData{
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Pixels: rgba.Pix,
	}, nil
}

// CheckerboardImage builds a size x size image of cells x cells squares
// alternating between a and b.
func CheckerboardImage(size, cells uint32, a, b color.RGBA) *metadata.ImageData {
	if cells == 0 {
		cells = 1
	}
	cell := size / cells
	if cell == 0 {
		cell = 1
	}
	pixels := make([]uint8, 0, int(size)*int(size)*4)
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			pixels = append(pixels, c.R, c.G, c.B, c.A)
		}
	}
	return &metadata.ImageData{Width: size, Height: size, Pixels: pixels}
}
