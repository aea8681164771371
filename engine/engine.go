package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spaghettifunk/deimos/engine/assets"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/platform"
	"github.com/spaghettifunk/deimos/engine/renderer"
	"github.com/spaghettifunk/deimos/engine/renderer/headless"
	"github.com/spaghettifunk/deimos/engine/renderer/opengl"
	"github.com/spaghettifunk/deimos/engine/systems"
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

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64

	eventHandles map[core.SystemEventCode]uint64
}

func New(g *Game) (*Engine, error) {
	config := g.ApplicationConfig
	if config == nil {
		config = DefaultApplicationConfig()
		g.ApplicationConfig = config
	}
	core.SetLogLevel(core.ParseLogLevel(config.LogLevel))

	p := platform.New()

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	var backend renderer.RendererBackend
	switch config.Renderer.Backend {
	case renderer.OpenGL:
		backend = opengl.New(config.ClearColour(), p.SwapBuffers)
	case renderer.Headless:
		backend = headless.New(headless.WithStrictArrays())
	default:
		err := fmt.Errorf("unsupported renderer backend: %s", config.Renderer.Backend)
		core.LogError(err.Error())
		return nil, err
	}

	sm, err := systems.NewSystemManager(renderer.New(backend, renderer.LogReporter{}), am, &systems.MeshSystemConfig{
		MaxMeshCount:      config.Renderer.MaxMeshCount,
		Usage:             config.Renderer.Usage,
		DiscardClientCopy: config.Renderer.DiscardClientCopy,
		Streams:           config.Streams(),
	})
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		platform:      p,
		assetManager:  am,
		systemManager: sm,
		isSuspended:   false,
		width:         config.Window.StartWidth,
		height:        config.Window.StartHeight,
		lastTime:      0,
		eventHandles:  make(map[core.SystemEventCode]uint64),
	}, nil
}

func (e *Engine) headless() bool {
	return e.gameInstance.ApplicationConfig.Renderer.Backend == renderer.Headless
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	// initialize events
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}

	// register some events
	e.eventHandles[core.EVENT_CODE_APPLICATION_QUIT] = core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.eventHandles[core.EVENT_CODE_KEY_PRESSED] = core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.eventHandles[core.EVENT_CODE_RESIZED] = core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)

	// the GL context has to exist before the renderer loads its functions
	if !e.headless() {
		if err := e.platform.Startup(config.Name,
			config.Window.StartPosX,
			config.Window.StartPosY,
			config.Window.StartWidth,
			config.Window.StartHeight,
			config.Window.VSync); err != nil {
			return err
		}
	}

	// initialize subsystems
	dir := config.Assets.Directory
	if dir != "" {
		if !filepath.IsAbs(dir) {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dir = filepath.Join(wd, dir)
		}
		if err := e.assetManager.Initialize(dir, config.Assets.Watch); err != nil {
			return err
		}
	}

	if err := e.systemManager.Initialize(); err != nil {
		return err
	}
	e.gameInstance.SystemManager = e.systemManager

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before Run")
	}
	e.currentStage = EngineStageRunning
	e.isRunning.Store(true)

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	maxFrames := uint64(0)
	if e.headless() {
		maxFrames = e.gameInstance.ApplicationConfig.Renderer.HeadlessFrames
	}
	var runningTime float64 = 0.0

	for e.isRunning.Load() {
		if !e.headless() && !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}

		if e.isSuspended {
			e.platform.Sleep(10)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)
		frameStart := time.Now()

		// asset changes are picked up on this thread since they touch GL
		e.systemManager.MeshSystem.ProcessAssetChanges()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("Game update failed, shutting down.")
				e.isRunning.Store(false)
				return err
			}
		}

		// Draw frame
		if err := e.systemManager.RendererSystem.DrawFrame(delta, func() error {
			err := e.systemManager.MeshSystem.DrawAll()
			if e.gameInstance.FnRender != nil {
				if rerr := e.gameInstance.FnRender(delta); rerr != nil {
					return rerr
				}
			}
			return err
		}); err != nil {
			core.LogError("Frame render failed, shutting down.")
			e.isRunning.Store(false)
			return err
		}

		frameElapsedTime := time.Since(frameStart).Seconds()
		runningTime += frameElapsedTime
		e.metrics.Update(frameElapsedTime)
		if e.metrics.TotalFrames()%600 == 0 {
			fps, ms := e.metrics.Frame()
			core.LogDebug("FPS: %.1f, frame time: %.3fms", fps, ms)
		}

		// Update last time
		e.lastTime = currentTime

		if maxFrames > 0 && e.metrics.TotalFrames() >= maxFrames {
			core.LogInfo("ran %d headless frames in %.3fs", e.metrics.TotalFrames(), runningTime)
			e.isRunning.Store(false)
		}
	}

	e.clock.Stop()
	return nil
}

// Stop asks the main loop to exit after the current frame. Safe to call
// from any goroutine.
func (e *Engine) Stop() {
	e.isRunning.Store(false)
}

// Frames returns the number of frames rendered so far.
func (e *Engine) Frames() uint64 {
	return e.metrics.TotalFrames()
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown

	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError(err.Error())
		}
	}
	for code, handle := range e.eventHandles {
		core.EventUnregister(code, handle)
	}
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	if err := e.assetManager.Shutdown(); err != nil {
		return err
	}
	if !e.headless() {
		if err := e.platform.Shutdown(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// ApplicationGetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		{
			core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
			e.isRunning.Store(false)
			return true
		}
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*platform.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	core.LogDebug("key %d pressed in window.", ke.Key)
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*platform.ResizeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := se.Width
	height := se.Height

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return false
}
