package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

const lineMesh = `
primitive = "lines"

[[vertices]]
position = [0.0, 0.0, 0.0]

[[vertices]]
position = [1.0, 1.0, 0.0]
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestAssetManagerIndexesAndLoads(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "meshes", "line.mesh"), lineMesh)
	writeFile(t, filepath.Join(dir, "meshes", "notes.txt"), "ignored")

	am, err := NewAssetManager()
	if err != nil {
		t.Fatalf("NewAssetManager: %v", err)
	}
	defer am.Shutdown()
	if err := am.Initialize(dir, false); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	names := am.Names(metadata.ResourceTypeMesh)
	if len(names) != 1 || names[0] != "line" {
		t.Fatalf("Names() = %v", names)
	}
	res, err := am.LoadAsset("line", nil)
	if err != nil {
		t.Fatalf("LoadAsset: %v", err)
	}
	config := res.Data.(*metadata.MeshConfig)
	if config.Primitive != metadata.PRIMITIVE_LINES || len(config.Vertices) != 2 {
		t.Fatalf("config = %+v", config)
	}
	if info, ok := am.Lookup(res.FullPath); !ok || info.LastLoaded.IsZero() {
		t.Fatalf("Lookup(%s) = %+v, %v", res.FullPath, info, ok)
	}
	if err := am.UnloadAsset(res); err != nil {
		t.Fatalf("UnloadAsset: %v", err)
	}
	if _, err := am.LoadAsset("missing", nil); err == nil {
		t.Fatal("expected error for missing asset")
	}
}

func TestAssetManagerMissingDirectory(t *testing.T) {
	am, err := NewAssetManager()
	if err != nil {
		t.Fatalf("NewAssetManager: %v", err)
	}
	defer am.Shutdown()
	if err := am.Initialize(filepath.Join(t.TempDir(), "nope"), true); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(am.Names(metadata.ResourceTypeMesh)) != 0 {
		t.Fatal("no assets expected")
	}
}

func TestAssetManagerReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "line.mesh")
	writeFile(t, path, lineMesh)

	am, err := NewAssetManager()
	if err != nil {
		t.Fatalf("NewAssetManager: %v", err)
	}
	defer am.Shutdown()
	if err := am.Initialize(dir, true); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	writeFile(t, path, lineMesh+"\n[[vertices]]\nposition = [2.0, 0.0, 0.0]\n")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, p := range am.Changes() {
			if p == filepath.Clean(path) {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("no change reported for the rewritten mesh")
}
