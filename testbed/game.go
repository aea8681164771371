package testbed

import (
	"fmt"

	"github.com/spaghettifunk/deimos/engine"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/math"
	"github.com/spaghettifunk/deimos/engine/renderer"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	// the strip is regenerated every stripPeriod seconds
	strip       *renderer.Mesh
	stripTimer  float64
	stripPeriod float64

	reloadHandle uint64
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				stripPeriod: 2.0,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers ")
	}
	state := g.State.(*gameState)
	ms := g.SystemManager.MeshSystem

	if _, err := ms.Create("triangle", math.GenerateTriangle(0.3), metadata.PRIMITIVE_TRIANGLES); err != nil {
		return err
	}
	if _, err := ms.Create("quad", offset(math.GenerateQuad(0.4, 0.4, math.NewColour(0.2, 0.6, 1.0, 1.0)), -0.6, 0.5), metadata.PRIMITIVE_TRIANGLES); err != nil {
		return err
	}
	circle := math.GenerateCircle(math.NewVec3(0.6, 0.5, 0), 0.2, 32, math.NewColour(1.0, 0.5, 0.1, 1.0))
	if _, err := ms.Create("circle", circle, metadata.PRIMITIVE_TRIANGLE_FAN); err != nil {
		return err
	}
	strip, err := ms.Create("strip", math.GenerateRandomStrip(16, 0.9), metadata.PRIMITIVE_LINE_STRIP)
	if err != nil {
		return err
	}
	state.strip = strip

	// every mesh asset shipped with the application
	if err := ms.LoadAll(ms.AssetNames()); err != nil {
		core.LogWarn("some meshes failed to load: %s", err)
	}

	state.reloadHandle = core.EventRegister(core.EVENT_CODE_ASSET_RELOADED, func(context core.EventContext) bool {
		core.LogInfo("mesh '%v' reloaded", context.Data)
		return false
	})
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	state.stripTimer += deltaTime
	if state.stripTimer < state.stripPeriod {
		return nil
	}
	state.stripTimer = 0

	// re-creating replaces the buffer and resets its draw count
	state.strip.SetVertexData(math.GenerateRandomStrip(16, 0.9))
	if err := state.strip.CreateGPUBuffer(false); err != nil {
		core.LogWarn("failed to refresh strip: %s", err)
	}
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	core.EventUnregister(core.EVENT_CODE_ASSET_RELOADED, state.reloadHandle)
	return nil
}

func offset(vertices []math.Vertex3D, x, y float32) []math.Vertex3D {
	for i := range vertices {
		vertices[i].Position = vertices[i].Position.Add(math.NewVec3(x, y, 0))
	}
	return vertices
}
