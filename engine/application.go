package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/math"
	"github.com/spaghettifunk/deimos/engine/renderer"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

type WindowConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"height"`
	VSync       bool   `toml:"vsync"`
}

type RendererConfig struct {
	Backend renderer.RendererType `toml:"backend"`
	// Default usage of meshes built in code.
	Usage             metadata.BufferUsage `toml:"usage"`
	DiscardClientCopy bool                 `toml:"discard_client_copy"`
	// Point the colour array at the vertex colours. Positions and texture
	// coordinates are always configured.
	ColourStream bool       `toml:"colour_stream"`
	ClearColour  [4]float32 `toml:"clear_colour"`
	MaxMeshCount uint32     `toml:"max_mesh_count"`
	// Frames to run before quitting with the headless backend. 0 runs until quit.
	HeadlessFrames uint64 `toml:"headless_frames"`
}

type AssetsConfig struct {
	Directory string `toml:"directory"`
	Watch     bool   `toml:"watch"`
}

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name     string         `toml:"name"`
	LogLevel string         `toml:"log_level"`
	Window   WindowConfig   `toml:"window"`
	Renderer RendererConfig `toml:"renderer"`
	Assets   AssetsConfig   `toml:"assets"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:     "Deimos",
		LogLevel: "info",
		Window: WindowConfig{
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			VSync:       true,
		},
		Renderer: RendererConfig{
			Backend:      renderer.OpenGL,
			Usage:        metadata.BUFFER_USAGE_STATIC,
			ColourStream: true,
			ClearColour:  [4]float32{0.1, 0.1, 0.12, 1.0},
			MaxMeshCount: 64,
		},
		Assets: AssetsConfig{
			Directory: "assets",
			Watch:     true,
		},
	}
}

// LoadApplicationConfig reads a TOML config over the defaults. A missing
// file yields the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		core.LogWarn("config file '%s' not found, using defaults", path)
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.Renderer.MaxMeshCount == 0 {
		return fmt.Errorf("renderer.max_mesh_count must be > 0: %w", core.ErrInvalidArgument)
	}
	if c.Renderer.Backend == renderer.OpenGL && (c.Window.StartWidth == 0 || c.Window.StartHeight == 0) {
		return fmt.Errorf("window size %dx%d: %w", c.Window.StartWidth, c.Window.StartHeight, core.ErrInvalidArgument)
	}
	return nil
}

func (c *ApplicationConfig) Streams() metadata.StreamKind {
	streams := metadata.STREAM_VERTEX | metadata.STREAM_TEXTURE
	if c.Renderer.ColourStream {
		streams |= metadata.STREAM_COLOR
	}
	return streams
}

func (c *ApplicationConfig) ClearColour() math.Vec4 {
	cc := c.Renderer.ClearColour
	return math.NewColour(cc[0], cc[1], cc[2], cc[3])
}
