package engine

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/spaghettifunk/planogram/engine/assets"
	"github.com/spaghettifunk/planogram/engine/assets/loaders"
	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/platform"
	"github.com/spaghettifunk/planogram/engine/renderer/metadata"
	"github.com/spaghettifunk/planogram/engine/renderer/vulkan"
	"github.com/spaghettifunk/planogram/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Side and cell count of the texture used when the configured one is missing.
const (
	fallbackTextureSize  = 256
	fallbackTextureCells = 8
)

// EventSource hands out window events one at a time. ok is false once the
// source is closed.
type EventSource interface {
	NextEvent() (ev core.Event, ok bool)
}

type Engine struct {
	currentStage Stage
	gameInstance *Game
	config       *ApplicationConfig

	platform     *platform.Platform
	renderer     *vulkan.VulkanRenderer
	assetManager *assets.AssetManager
	resources    *vulkan.PolygonResources
	controller   *Controller
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	p := platform.New()
	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       g.ApplicationConfig,
		platform:     p,
		renderer:     vulkan.New(p, g.ApplicationConfig.Name, g.ApplicationConfig.Debug),
		assetManager: am,
	}, nil
}

// Initialize opens the window, brings up the renderer, uploads the polygon
// and hands everything to the render loop controller.
func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.config

	kind, err := cfg.VertexKind()
	if err != nil {
		return err
	}
	polygon, err := systems.GeneratePolygon(cfg.Sides, kind)
	if err != nil {
		return err
	}

	if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight); err != nil {
		return err
	}
	if err := e.renderer.Initialize(); err != nil {
		return err
	}
	if err := e.assetManager.Initialize(cfg.AssetsDir); err != nil {
		return err
	}

	shaders, err := loadShaders(e.assetManager, kind)
	if err != nil {
		return err
	}
	image, err := loadTexture(e.assetManager, kind, cfg.TexturePath)
	if err != nil {
		return err
	}
	e.resources, err = vulkan.NewPolygonResources(e.renderer.Context(), polygon, shaders, image)
	if err != nil {
		return err
	}

	e.controller = NewController(e.platform, e.renderer, e.resources, e.gameInstance.FnUpdate, e.gameInstance.FnOnResize)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		width, height := e.renderer.Size()
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Run drives the controller with platform events until it exits.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine run before initialization")
	}
	e.currentStage = EngineStageRunning
	state := RunLoop(e.platform, e.controller)
	core.LogInfo("Render loop finished in state %s.", state)
	return nil
}

// RunLoop feeds every event from source to c until c reaches StateExiting or
// the source runs dry, and returns the final state.
func RunLoop(source EventSource, c *Controller) LoopState {
	for {
		ev, ok := source.NextEvent()
		if !ok {
			return c.State()
		}
		if c.HandleEvent(ev) == StateExiting {
			return StateExiting
		}
	}
}

// Shutdown releases everything Initialize created, in reverse order. It is
// safe after a partial Initialize.
func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			errs = append(errs, err)
		}
	}
	if e.resources != nil {
		e.resources.Destroy()
		e.resources = nil
	}
	e.renderer.Shutdown()
	if err := e.assetManager.Close(); err != nil {
		errs = append(errs, err)
	}
	e.platform.Shutdown()

	e.currentStage = EngineStageUninitialized
	return errors.Join(errs...)
}

// shaderStages names the vertex and fragment stages for a vertex kind.
func shaderStages(kind metadata.VertexKind) (string, string) {
	base := "polygon_" + kind.String()
	return base + ".vert", base + ".frag"
}

func loadShaders(am *assets.AssetManager, kind metadata.VertexKind) (vulkan.ShaderCode, error) {
	vert, frag := shaderStages(kind)
	var code vulkan.ShaderCode
	for _, s := range []struct {
		stage string
		dst   *[]uint32
	}{
		{vert, &code.Vertex},
		{frag, &code.Fragment},
	} {
		res, err := am.LoadAsset(assets.ShaderPath(s.stage), metadata.ResourceTypeShader, nil)
		if err != nil {
			return vulkan.ShaderCode{}, fmt.Errorf("shader %s: %w", s.stage, err)
		}
		words, ok := res.Data.([]uint32)
		if !ok {
			return vulkan.ShaderCode{}, fmt.Errorf("shader %s: unexpected data %T", s.stage, res.Data)
		}
		*s.dst = words
	}
	return code, nil
}

// loadTexture returns the image for textured polygons and nil otherwise. A
// missing texture falls back to a checkerboard; a corrupt one is an error.
func loadTexture(am *assets.AssetManager, kind metadata.VertexKind, path string) (*metadata.ImageData, error) {
	if kind != metadata.VertexKindTextured {
		return nil, nil
	}
	res, err := am.LoadAsset(path, metadata.ResourceTypeImage, nil)
	if errors.Is(err, core.ErrAssetNotFound) {
		core.LogWarn("Texture %s not found, using a checkerboard.", path)
		return loaders.CheckerboardImage(fallbackTextureSize, fallbackTextureCells,
			color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
			color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", path, err)
	}
	img, ok := res.Data.(*metadata.ImageData)
	if !ok {
		return nil, fmt.Errorf("texture %s: unexpected data %T", path, res.Data)
	}
	return img, nil
}
