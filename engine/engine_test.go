package engine

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/planogram/engine/assets"
	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/renderer"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
)

// scriptedSource replays events and then reports itself closed.
type scriptedSource struct {
	events []core.Event
	pulled int
}

func (s *scriptedSource) NextEvent() (core.Event, bool) {
	if s.pulled >= len(s.events) {
		return nil, false
	}
	ev := s.events[s.pulled]
	s.pulled++
	return ev, true
}

func TestRunLoop_StopsAtExit(t *testing.T) {
	c, w, s, d := newTestController(t)
	src := &scriptedSource{events: []core.Event{
		core.MainEventsCleared{},
		core.RedrawRequested{WindowID: w.id},
		core.Resized{WindowID: w.id, Width: 640, Height: 480},
		core.RedrawRequested{WindowID: w.id},
		core.CloseRequested{WindowID: w.id},
		core.RedrawRequested{WindowID: w.id},
	}}

	if got := RunLoop(src, c); got != StateExiting {
		t.Fatalf("state = %s, want %s", got, StateExiting)
	}
	if src.pulled != 5 {
		t.Errorf("pulled %d events, want 5", src.pulled)
	}
	if d.draws != 2 || s.presents != 2 {
		t.Errorf("draws = %d, presents = %d, want 2, 2", d.draws, s.presents)
	}
	if w.redraws != 1 {
		t.Errorf("redraw requests = %d, want 1", w.redraws)
	}
	if width, height := c.Size(); width != 640 || height != 480 {
		t.Errorf("size = %dx%d, want 640x480", width, height)
	}
}

func TestRunLoop_SourceClosed(t *testing.T) {
	c, w, _, _ := newTestController(t)
	src := &scriptedSource{events: []core.Event{core.RedrawRequested{WindowID: w.id}}}

	if got := RunLoop(src, c); got != StateRunning {
		t.Fatalf("state = %s, want %s", got, StateRunning)
	}
}

func TestRunLoop_OutOfMemoryExits(t *testing.T) {
	c, w, s, _ := newTestController(t)
	s.acquireErrs = []error{renderer.SurfaceErrorOutOfMemory}
	src := &scriptedSource{events: []core.Event{
		core.RedrawRequested{WindowID: w.id},
		core.RedrawRequested{WindowID: w.id},
	}}

	if got := RunLoop(src, c); got != StateExiting {
		t.Fatalf("state = %s, want %s", got, StateExiting)
	}
	if src.pulled != 1 {
		t.Errorf("pulled %d events, want 1", src.pulled)
	}
}

func TestShaderStages(t *testing.T) {
	tests := []struct {
		kind       metadata.VertexKind
		vert, frag string
	}{
		{metadata.VertexKindColor, "polygon_color.vert", "polygon_color.frag"},
		{metadata.VertexKindTextured, "polygon_textured.vert", "polygon_textured.frag"},
	}
	for _, tt := range tests {
		vert, frag := shaderStages(tt.kind)
		if vert != tt.vert || frag != tt.frag {
			t.Errorf("shaderStages(%s) = %s, %s, want %s, %s", tt.kind, vert, frag, tt.vert, tt.frag)
		}
	}
}

func newAssets(t *testing.T, files map[string][]byte) *assets.AssetManager {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	am, err := assets.NewAssetManager()
	if err != nil {
		t.Fatal(err)
	}
	if err := am.Initialize(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { am.Close() })
	return am
}

func spirvModule(words int) []byte {
	buf := make([]byte, 4*words)
	binary.LittleEndian.PutUint32(buf, 0x07230203)
	return buf
}

func TestLoadShaders(t *testing.T) {
	am := newAssets(t, map[string][]byte{
		"shaders/polygon_color.vert.spv": spirvModule(5),
		"shaders/polygon_color.frag.spv": spirvModule(3),
	})

	code, err := loadShaders(am, metadata.VertexKindColor)
	if err != nil {
		t.Fatalf("loadShaders: %v", err)
	}
	if len(code.Vertex) != 5 || len(code.Fragment) != 3 {
		t.Errorf("got %d vertex and %d fragment words, want 5 and 3", len(code.Vertex), len(code.Fragment))
	}

	if _, err := loadShaders(am, metadata.VertexKindTextured); !errors.Is(err, core.ErrAssetNotFound) {
		t.Errorf("missing textured shaders error = %v, want ErrAssetNotFound", err)
	}
}

func TestLoadTexture(t *testing.T) {
	am := newAssets(t, map[string][]byte{
		"textures/broken.png": []byte("not a png"),
	})

	img, err := loadTexture(am, metadata.VertexKindColor, "textures/polygon.png")
	if err != nil || img != nil {
		t.Errorf("color variant = %v, %v, want nil, nil", img, err)
	}

	img, err = loadTexture(am, metadata.VertexKindTextured, "textures/polygon.png")
	if err != nil {
		t.Fatalf("missing texture: %v", err)
	}
	if img.Width != fallbackTextureSize || img.Height != fallbackTextureSize || !img.Valid() {
		t.Errorf("fallback = %dx%d with %d bytes", img.Width, img.Height, len(img.Pixels))
	}

	if _, err := loadTexture(am, metadata.VertexKindTextured, "textures/broken.png"); err == nil {
		t.Error("a corrupt texture must not fall back")
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultApplicationConfig()
	cfg.Sides = 2
	if _, err := New(&Game{ApplicationConfig: cfg}); !errors.Is(err, core.ErrInvalidSides) {
		t.Errorf("New error = %v, want ErrInvalidSides", err)
	}
}
