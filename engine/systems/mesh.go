package systems

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/deimos/engine/assets"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/math"
	"github.com/spaghettifunk/deimos/engine/renderer"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

type MeshSystemConfig struct {
	MaxMeshCount uint32
	// Usage hint for meshes built from code. Asset meshes carry their own.
	Usage metadata.BufferUsage
	// Drop the client vertex copy once the GPU buffer is filled.
	DiscardClientCopy bool
	// Extra attribute streams besides the always-configured vertex and texture streams.
	Streams metadata.StreamKind
}

type meshEntry struct {
	mesh      *renderer.Mesh
	primitive metadata.PrimitiveKind
	// Asset path the mesh was loaded from, empty for meshes built in code.
	path string
}

// MeshSystem owns the named meshes of the application and keeps their GPU
// buffers in step with the asset files they come from.
type MeshSystem struct {
	config   *MeshSystemConfig
	renderer *renderer.Renderer
	assets   *assets.AssetManager
	// Optional; asset parsing runs inline without it.
	jobs *JobSystem

	meshes map[string]*meshEntry
	// Draw order is registration order.
	order []string
}

func NewMeshSystem(config *MeshSystemConfig, r *renderer.Renderer, am *assets.AssetManager, js *JobSystem) (*MeshSystem, error) {
	if config.MaxMeshCount == 0 {
		err := fmt.Errorf("func NewMeshSystem - config.MaxMeshCount must be > 0")
		core.LogWarn(err.Error())
		return nil, err
	}
	return &MeshSystem{
		config:   config,
		renderer: r,
		assets:   am,
		jobs:     js,
		meshes:   make(map[string]*meshEntry),
	}, nil
}

// Create builds a mesh from vertices, uploads it and registers it under
// name. An existing mesh with the same name is destroyed first.
func (ms *MeshSystem) Create(name string, vertices []math.Vertex3D, primitive metadata.PrimitiveKind) (*renderer.Mesh, error) {
	return ms.create(name, "", vertices, primitive, ms.config.Usage)
}

func (ms *MeshSystem) create(name, path string, vertices []math.Vertex3D, primitive metadata.PrimitiveKind, usage metadata.BufferUsage) (*renderer.Mesh, error) {
	if _, exists := ms.meshes[name]; !exists && uint32(len(ms.meshes)) >= ms.config.MaxMeshCount {
		return nil, fmt.Errorf("cannot create mesh '%s': limit of %d meshes reached", name, ms.config.MaxMeshCount)
	}
	ms.Release(name)

	mesh := ms.renderer.NewMesh(name, vertices,
		renderer.WithUsage(usage),
		renderer.WithStreams(ms.config.Streams))
	if err := mesh.CreateGPUBuffer(ms.config.DiscardClientCopy); err != nil {
		// Backend errors were already reported; the mesh may still draw.
		core.LogWarn("mesh '%s' created with errors: %s", name, err)
	}

	ms.meshes[name] = &meshEntry{mesh: mesh, primitive: primitive, path: path}
	ms.order = append(ms.order, name)
	core.LogDebug("mesh '%s' ready: %d vertices, residency %s", name, mesh.Buffer().ElementCount(), mesh.Residency())
	return mesh, nil
}

// LoadFromResource loads the mesh asset with the given name or path.
func (ms *MeshSystem) LoadFromResource(nameOrPath string) (*renderer.Mesh, error) {
	if ms.assets == nil {
		return nil, fmt.Errorf("mesh system has no asset manager")
	}
	res, err := ms.assets.LoadAsset(nameOrPath, nil)
	if err != nil {
		return nil, err
	}
	return ms.createFromResource(nameOrPath, res)
}

// LoadAll loads the named mesh assets. Files are parsed on the job system
// when there is one; buffers are created on the calling thread. Every
// failure is returned, joined.
func (ms *MeshSystem) LoadAll(names []string) error {
	if ms.assets == nil {
		return fmt.Errorf("mesh system has no asset manager")
	}
	if ms.jobs == nil {
		var errs []error
		for _, name := range names {
			if _, err := ms.LoadFromResource(name); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	tasks := make([]JobTask, len(names))
	for i, name := range names {
		tasks[i] = JobTask{
			Name: name,
			Run: func() (interface{}, error) {
				return ms.assets.LoadAsset(name, nil)
			},
		}
	}

	var errs []error
	for _, r := range ms.jobs.RunAll(tasks) {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("mesh '%s': %w", r.Name, r.Err))
			continue
		}
		if _, err := ms.createFromResource(r.Name, r.Value.(*metadata.Resource)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ms *MeshSystem) unload(res *metadata.Resource) {
	if err := ms.assets.UnloadAsset(res); err != nil {
		core.LogError(err.Error())
	}
}

func (ms *MeshSystem) createFromResource(nameOrPath string, res *metadata.Resource) (*renderer.Mesh, error) {
	defer ms.unload(res)

	config, ok := res.Data.(*metadata.MeshConfig)
	if !ok {
		return nil, fmt.Errorf("asset '%s' is not a mesh", nameOrPath)
	}
	return ms.create(config.Name, res.FullPath, config.Vertices, config.Primitive, config.Usage)
}

// Reload re-reads the asset at path into the mesh that was loaded from it,
// or loads it as a new mesh.
func (ms *MeshSystem) Reload(path string) error {
	path = filepath.Clean(path)
	var target *meshEntry
	for _, e := range ms.meshes {
		if e.path == path {
			target = e
			break
		}
	}
	if target == nil {
		_, err := ms.LoadFromResource(path)
		return err
	}

	res, err := ms.assets.LoadAsset(path, nil)
	if err != nil {
		return err
	}
	defer ms.unload(res)

	config, ok := res.Data.(*metadata.MeshConfig)
	if !ok {
		return fmt.Errorf("asset '%s' is not a mesh", path)
	}
	target.mesh.SetVertexData(config.Vertices)
	target.primitive = config.Primitive
	if err := target.mesh.CreateGPUBuffer(ms.config.DiscardClientCopy); err != nil {
		core.LogWarn("mesh '%s' reloaded with errors: %s", target.mesh.Name, err)
	}

	core.LogInfo("reloaded mesh '%s' from '%s'", target.mesh.Name, path)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_ASSET_RELOADED, Data: target.mesh.Name})
	return nil
}

// ProcessAssetChanges reloads every mesh asset changed on disk since the
// last call. Must run on the render thread.
func (ms *MeshSystem) ProcessAssetChanges() {
	if ms.assets == nil {
		return
	}
	for _, path := range ms.assets.Changes() {
		if err := ms.Reload(path); err != nil {
			core.LogError("failed to reload '%s': %s", path, err)
		}
	}
}

func (ms *MeshSystem) Get(name string) (*renderer.Mesh, bool) {
	e, ok := ms.meshes[name]
	if !ok {
		return nil, false
	}
	return e.mesh, true
}

func (ms *MeshSystem) Names() []string {
	return append([]string(nil), ms.order...)
}

// AssetNames lists the mesh assets known to the asset manager.
func (ms *MeshSystem) AssetNames() []string {
	if ms.assets == nil {
		return nil
	}
	return ms.assets.Names(metadata.ResourceTypeMesh)
}

// DrawAll draws every mesh with its primitive. Meshes that are not ready
// are skipped; backend errors are collected and returned.
func (ms *MeshSystem) DrawAll() error {
	var errs []error
	for _, name := range ms.order {
		e := ms.meshes[name]
		err := e.mesh.Draw(e.primitive)
		if renderer.IsPrecondition(err) {
			renderer.Silently(err)
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("mesh '%s': %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Release destroys the named mesh. Unknown names are ignored.
func (ms *MeshSystem) Release(name string) {
	e, ok := ms.meshes[name]
	if !ok {
		return
	}
	if err := e.mesh.Destroy(); err != nil {
		core.LogWarn("failed to destroy mesh '%s': %s", name, err)
	}
	delete(ms.meshes, name)
	for i, n := range ms.order {
		if n == name {
			ms.order = append(ms.order[:i], ms.order[i+1:]...)
			break
		}
	}
}

func (ms *MeshSystem) Shutdown() error {
	for _, name := range ms.Names() {
		ms.Release(name)
	}
	return nil
}
