package testbed

import (
	"testing"

	"github.com/spaghettifunk/deimos/engine"
	"github.com/spaghettifunk/deimos/engine/renderer"
	"github.com/spaghettifunk/deimos/engine/renderer/headless"
)

func TestTestGameHeadless(t *testing.T) {
	config := engine.DefaultApplicationConfig()
	config.LogLevel = "error"
	config.Renderer.Backend = renderer.Headless
	config.Renderer.HeadlessFrames = 3
	config.Assets.Directory = t.TempDir()
	config.Assets.Watch = false

	tg := NewTestGame(config)
	// regenerate the strip every frame
	tg.State.(*gameState).stripPeriod = 0

	e, err := engine.New(tg.Game)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	names := tg.SystemManager.MeshSystem.Names()
	if len(names) != 4 {
		t.Fatalf("Names() = %v", names)
	}
	ctx := tg.SystemManager.RendererSystem.Context().(*headless.Context)
	if got := len(ctx.CallsNamed("DrawArrays")); got != 12 {
		t.Fatalf("expected 12 draws, got %d", got)
	}
	if ctx.LiveBuffers() != 4 {
		t.Fatalf("LiveBuffers() = %d, want 4", ctx.LiveBuffers())
	}

	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if ctx.LiveBuffers() != 0 {
		t.Fatalf("LiveBuffers() after Shutdown = %d", ctx.LiveBuffers())
	}
}
