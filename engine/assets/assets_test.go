package assets

import (
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func writeShader(t *testing.T, path string) {
	t.Helper()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf, 0x07230203)
	binary.LittleEndian.PutUint32(buf[4:], 0x00010000)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
}

func newManager(t *testing.T, dir string) *AssetManager {
	t.Helper()
	am, err := NewAssetManager()
	if err != nil {
		t.Fatalf("NewAssetManager: %v", err)
	}
	if err := am.Initialize(dir); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { am.Close() })
	return am
}

func TestAssetManagerIndexes(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, filepath.Join(dir, "shaders", "polygon_color.vert.spv"))
	writePNG(t, filepath.Join(dir, "textures", "polygon.png"))
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	am := newManager(t, dir)
	if got := am.Count(); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	if info, ok := am.Lookup(ShaderPath("polygon_color.vert")); !ok || info.Type != metadata.ResourceTypeShader {
		t.Errorf("shader lookup = %+v, %v", info, ok)
	}
	if info, ok := am.Lookup("textures/polygon.png"); !ok || info.Type != metadata.ResourceTypeImage {
		t.Errorf("texture lookup = %+v, %v", info, ok)
	}
	if _, ok := am.Lookup("README.txt"); ok {
		t.Error("unknown file types must not be indexed")
	}
}

func TestAssetManagerLoad(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, filepath.Join(dir, "shaders", "polygon_color.frag.spv"))
	writePNG(t, filepath.Join(dir, "textures", "polygon.png"))
	am := newManager(t, dir)

	res, err := am.LoadAsset(ShaderPath("polygon_color.frag"), metadata.ResourceTypeShader, nil)
	if err != nil {
		t.Fatalf("LoadAsset shader: %v", err)
	}
	if code, ok := res.Data.([]uint32); !ok || len(code) != 2 {
		t.Errorf("shader data = %#v", res.Data)
	}

	res, err = am.LoadAsset("textures/polygon.png", metadata.ResourceTypeImage, nil)
	if err != nil {
		t.Fatalf("LoadAsset image: %v", err)
	}
	if img, ok := res.Data.(*metadata.ImageData); !ok || img.Width != 2 || img.Height != 2 {
		t.Errorf("image data = %#v", res.Data)
	}
	if info, _ := am.Lookup("textures/polygon.png"); info.LastLoaded.IsZero() {
		t.Error("LastLoaded not updated")
	}
}

func TestAssetManagerLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "textures", "polygon.png"))
	am := newManager(t, dir)

	if _, err := am.LoadAsset("textures/missing.png", metadata.ResourceTypeImage, nil); !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("missing asset error = %v, want ErrAssetNotFound", err)
	}
	if _, err := am.LoadAsset("textures/polygon.png", metadata.ResourceTypeShader, nil); err == nil {
		t.Error("loading an image as a shader should fail")
	}
}

func TestAssetManagerMissingDirectory(t *testing.T) {
	am := newManager(t, filepath.Join(t.TempDir(), "nope"))
	if got := am.Count(); got != 0 {
		t.Errorf("Count = %d, want 0", got)
	}
}

func TestAssetManagerWatchesNewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "shaders"), 0o755); err != nil {
		t.Fatal(err)
	}
	am := newManager(t, dir)

	writeShader(t, filepath.Join(dir, "shaders", "late.vert.spv"))

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := am.Lookup(ShaderPath("late.vert")); ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("new shader was never indexed")
}

func TestAssetManagerCloseTwice(t *testing.T) {
	am := newManager(t, t.TempDir())
	if err := am.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := am.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
