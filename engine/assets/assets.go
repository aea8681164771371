package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/deimos/engine/assets/loaders"
	"github.com/spaghettifunk/deimos/engine/core"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

type AssetInfo struct {
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the asset directory and, when watching, reports files
// that changed on disk. Changes are only queued here; the render thread
// drains them with Changes so GPU work stays on that thread.
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan string
	wg       sync.WaitGroup
}

// Pending changes above this are dropped; a later write re-queues the file.
const maxPendingChanges = 64

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		changes:  make(chan string, maxPendingChanges),
		done:     make(chan struct{}),
	}
	am.RegisterLoader(metadata.ResourceTypeMesh, &loaders.MeshLoader{})
	return am, nil
}

// Initialize indexes every known asset under assetsDir. With watch set it
// also follows the directory tree for changes.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	if _, err := os.Stat(assetsDir); err != nil {
		if os.IsNotExist(err) {
			core.LogWarn("asset directory '%s' does not exist, no assets indexed", assetsDir)
			return nil
		}
		return err
	}
	if err := am.watchRecursive(assetsDir, watch); err != nil {
		return err
	}
	if watch {
		am.wg.Add(1)
		go am.start()
	}
	core.LogDebug("indexed %d assets under '%s'", len(am.assets), assetsDir)
	return nil
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	am.wg.Wait()
	return am.fsnotify.Close()
}

// RegisterLoader sets the loader for assetType, replacing any previous one.
// Must be called before assets are loaded.
func (am *AssetManager) RegisterLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Names returns the sorted names of the indexed assets of type t.
func (am *AssetManager) Names(t metadata.ResourceType) []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	var names []string
	for _, a := range am.assets {
		if a.Type == t {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup finds an indexed asset by path or by name.
func (am *AssetManager) Lookup(nameOrPath string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	if a, ok := am.assets[filepath.Clean(nameOrPath)]; ok {
		return a, true
	}
	for _, a := range am.assets {
		if a.Name == nameOrPath {
			return a, true
		}
	}
	return AssetInfo{}, false
}

// LoadAsset loads an asset, by name or path, with the loader registered for
// its type.
func (am *AssetManager) LoadAsset(nameOrPath string, params interface{}) (*metadata.Resource, error) {
	asset, exists := am.Lookup(nameOrPath)
	if !exists {
		return nil, fmt.Errorf("asset not found: %s", nameOrPath)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %d", asset.Type)
	}
	res, err := loader.Load(asset.Path, asset.Type, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	asset.LastLoaded = time.Now()
	am.assets[asset.Path] = asset
	am.mutex.Unlock()
	return res, nil
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource) error {
	loader, ok := am.loaders[resource.Type]
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %d", resource.Type)
	}
	return loader.Unload(resource)
}

// Changes returns the paths of assets modified since the last call, oldest
// first, without blocking.
func (am *AssetManager) Changes() []string {
	var paths []string
	seen := make(map[string]bool)
	for {
		select {
		case p := <-am.changes:
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		default:
			return paths
		}
	}
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, true); err != nil {
						core.LogWarn("failed to watch '%s': %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.handleFileEvent(e.Name) {
					am.queueChange(filepath.Clean(e.Name))
				}
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) queueChange(path string) {
	select {
	case am.changes <- path:
	default:
		core.LogWarn("asset change queue full, dropping '%s'", path)
	}
}

// watchRecursive indexes every file under path and, with watch set, adds
// each directory to the watch list.
func (am *AssetManager) watchRecursive(path string, watch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if watch {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file. Reports whether the file
// is a known asset.
func (am *AssetManager) handleFileEvent(path string) bool {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return false
	}
	path = filepath.Clean(path)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := am.assets[path]
	info.Path = path
	info.Type = assetType
	info.Name = assetName(path)
	am.assets[path] = info
	return true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, filepath.Clean(path))
}

func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func determineAssetType(path string) metadata.ResourceType {
	switch filepath.Ext(path) {
	case loaders.MeshExtension:
		return metadata.ResourceTypeMesh
	default:
		return metadata.ResourceTypeNone
	}
}
