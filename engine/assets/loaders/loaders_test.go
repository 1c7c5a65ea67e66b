package loaders

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

func spirv(words ...uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

func TestBytesToBytecode(t *testing.T) {
	code, err := BytesToBytecode(spirv(spirvMagic, 0x00010000, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 3 || code[0] != spirvMagic || code[1] != 0x00010000 || code[2] != 7 {
		t.Errorf("got = %#v", code)
	}

	bad := [][]byte{
		nil,
		{0x03, 0x02, 0x23},
		spirv(0xdeadbeef, 1),
	}
	for _, b := range bad {
		if _, err := BytesToBytecode(b); err == nil {
			t.Errorf("BytesToBytecode(% x) should fail", b)
		}
	}
}

func TestShaderLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polygon_color.vert.spv")
	if err := os.WriteFile(path, spirv(spirvMagic, 1, 2, 3), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := (&ShaderLoader{}).Load(path, metadata.ResourceTypeShader, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	code, ok := res.Data.([]uint32)
	if !ok || len(code) != 4 {
		t.Fatalf("Data = %#v, want 4 words", res.Data)
	}
	if res.Name != "polygon_color.vert.spv" || res.DataSize != 16 {
		t.Errorf("resource = %+v", res)
	}
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestDecodeImage(t *testing.T) {
	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, testImage()); err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(&bmpBuf, testImage()); err != nil {
		t.Fatal(err)
	}

	for name, buf := range map[string]*bytes.Buffer{"png": &pngBuf, "bmp": &bmpBuf} {
		img, err := DecodeImage(buf)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Width != 3 || img.Height != 2 || !img.Valid() {
			t.Fatalf("%s: got %dx%d with %d bytes", name, img.Width, img.Height, len(img.Pixels))
		}
		// Top-left is red, bottom-right is blue.
		if got := img.Pixels[0:4]; !bytes.Equal(got, []byte{255, 0, 0, 255}) {
			t.Errorf("%s: first pixel = %v", name, got)
		}
		last := len(img.Pixels) - 4
		if got := img.Pixels[last:]; !bytes.Equal(got, []byte{0, 0, 255, 255}) {
			t.Errorf("%s: last pixel = %v", name, got)
		}
	}
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	if _, err := DecodeImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTextureLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polygon.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, testImage()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	res, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	img, ok := res.Data.(*metadata.ImageData)
	if !ok || img.Width != 3 || img.Height != 2 {
		t.Fatalf("Data = %#v", res.Data)
	}
	if res.DataSize != 24 {
		t.Errorf("DataSize = %d, want 24", res.DataSize)
	}

	if _, err := (&TextureLoader{}).Load(filepath.Join(t.TempDir(), "missing.png"), metadata.ResourceTypeImage, nil); !os.IsNotExist(err) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestCheckerboardImage(t *testing.T) {
	a := color.RGBA{R: 255, A: 255}
	b := color.RGBA{G: 255, A: 255}
	img := CheckerboardImage(4, 2, a, b)
	if !img.Valid() || img.Width != 4 || img.Height != 4 {
		t.Fatalf("got %dx%d with %d bytes", img.Width, img.Height, len(img.Pixels))
	}
	at := func(x, y int) []byte {
		i := (y*4 + x) * 4
		return img.Pixels[i : i+4]
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, a}, {1, 1, a}, {2, 0, b}, {0, 2, b}, {3, 3, a},
	}
	for _, tt := range tests {
		want := []byte{tt.want.R, tt.want.G, tt.want.B, tt.want.A}
		if got := at(tt.x, tt.y); !bytes.Equal(got, want) {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, want)
		}
	}
}
