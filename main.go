/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/deimos/engine"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/renderer"
	"github.com/spaghettifunk/deimos/testbed"
)

func main() {
	configPath := flag.String("config", "deimos.toml", "path to the application config")
	frames := flag.Uint64("headless", 0, "run N frames on the headless renderer and exit")
	flag.Parse()

	config, err := engine.LoadApplicationConfig(*configPath)
	if err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
	if *frames > 0 {
		config.Renderer.Backend = renderer.Headless
		config.Renderer.HeadlessFrames = *frames
	}

	tb := testbed.NewTestGame(config)

	engine, err := engine.New(tb.Game)
	if err != nil {
		panic(err)
	}

	if err := engine.Initialize(); err != nil {
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the loop owns the GL context, so the signal only asks it to stop
	go func() {
		<-sigCh
		engine.Stop()
	}()

	// run engine
	if err := engine.Run(); err != nil {
		panic(err)
	}
	if err := engine.Shutdown(); err != nil {
		panic(err)
	}
}
