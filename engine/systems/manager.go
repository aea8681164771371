package systems

import (
	"runtime"

	"github.com/spaghettifunk/deimos/engine/assets"
	"github.com/spaghettifunk/deimos/engine/renderer"
)

type SystemManager struct {
	JobSystem      *JobSystem
	RendererSystem *renderer.Renderer
	MeshSystem     *MeshSystem
}

func NewSystemManager(r *renderer.Renderer, am *assets.AssetManager, meshConfig *MeshSystemConfig) (*SystemManager, error) {
	js, err := NewJobSystem(min(runtime.NumCPU(), 4), 16)
	if err != nil {
		return nil, err
	}
	ms, err := NewMeshSystem(meshConfig, r, am, js)
	if err != nil {
		js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		JobSystem:      js,
		RendererSystem: r,
		MeshSystem:     ms,
	}, nil
}

func (sm *SystemManager) Initialize() error {
	return sm.RendererSystem.Initialize()
}

// Shutdown releases GPU resources before the renderer goes away.
func (sm *SystemManager) Shutdown() error {
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MeshSystem.Shutdown(); err != nil {
		return err
	}
	return sm.RendererSystem.Shutdown()
}
