/*
Planogram opens a window and draws a single generated polygon through
Vulkan. Scroll to shift the background color, Escape or close to quit.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spaghettifunk/planogram/engine"
	"github.com/spaghettifunk/planogram/engine/core"
	"github.com/spaghettifunk/planogram/engine/systems"
	"github.com/spaghettifunk/planogram/testbed"
)

func main() {
	configPath := flag.String("config", "", "TOML file overriding the defaults (default \""+engine.DefaultConfigFile+"\" if present)")
	dump := flag.Bool("dump", false, "print the generated polygon and exit")
	flag.Parse()

	cfg, err := engine.LoadApplicationConfig(*configPath, testbed.Config())
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	level, _ := cfg.Level()
	core.SetLogLevel(level)

	if *dump {
		kind, _ := cfg.VertexKind()
		polygon, err := systems.GeneratePolygon(cfg.Sides, kind)
		if err != nil {
			panic(err)
		}
		fmt.Fprintln(os.Stdout, polygon.String())
		return
	}

	tb := testbed.NewTestGame(cfg)

	e, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError("shutdown: %s", err)
		}
	}()

	if err := e.Initialize(); err != nil {
		panic(err)
	}
	if err := e.Run(); err != nil {
		panic(err)
	}
}
