package testbed

import (
	"github.com/spaghettifunk/planogram/engine"
	"github.com/spaghettifunk/planogram/engine/core"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	elapsed float64
	frames  uint64

	width  uint32
	height uint32
}

// Config is the testbed's window and polygon setup before any config file
// overrides are applied.
func Config() *engine.ApplicationConfig {
	cfg := engine.DefaultApplicationConfig()
	cfg.Name = "Planogram"
	cfg.StartPosX, cfg.StartPosY = 100, 100
	cfg.StartWidth, cfg.StartHeight = 800, 600
	cfg.Sides = 6
	return cfg
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	if config == nil {
		config = Config()
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	cfg := g.ApplicationConfig
	core.LogInfo("testbed ready: %d-sided %s polygon.", cfg.Sides, cfg.Variant)
	return nil
}

// Update only keeps time; the scene is static.
func (g *TestGame) Update(deltaTime float64) error {
	s := g.state()
	s.elapsed += deltaTime
	s.frames++
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	s := g.state()
	s.width, s.height = width, height
	core.LogDebug("testbed resized to %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	s := g.state()
	core.LogInfo("testbed shutting down after %d frames in %.1fs.", s.frames, s.elapsed)
	return nil
}
