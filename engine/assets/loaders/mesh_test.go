package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/deimos/engine/math"
	"github.com/spaghettifunk/deimos/engine/renderer/metadata"
)

const triangleMesh = `
name = "tri"
primitive = "triangle_fan"
usage = "dynamic"

[[vertices]]
position = [-0.5, -0.5, 0.0]
colour = [1.0, 0.0, 0.0, 1.0]
texcoord = [0.0, 0.0]

[[vertices]]
position = [0.5, -0.5, 0.0]
colour = [0.0, 1.0, 0.0]

[[vertices]]
position = [0.0, 0.5, 0.0]
`

func TestParseMesh(t *testing.T) {
	config, err := ParseMesh([]byte(triangleMesh))
	if err != nil {
		t.Fatalf("ParseMesh: %v", err)
	}
	if config.Name != "tri" || config.Primitive != metadata.PRIMITIVE_TRIANGLE_FAN || config.Usage != metadata.BUFFER_USAGE_DYNAMIC {
		t.Fatalf("config = %+v", config)
	}
	if len(config.Vertices) != 3 {
		t.Fatalf("got %d vertices", len(config.Vertices))
	}
	if got := config.Vertices[1].Colour; got != math.NewVec4(0, 1, 0, 1) {
		t.Fatalf("rgb colour = %v", got)
	}
	if got := config.Vertices[2].Colour; got != math.NewColourWhite() {
		t.Fatalf("default colour = %v", got)
	}
}

func TestParseMeshDefaultsAndErrors(t *testing.T) {
	config, err := ParseMesh([]byte("[[vertices]]\nposition = [0.0, 0.0, 0.0]\n"))
	if err != nil {
		t.Fatalf("ParseMesh: %v", err)
	}
	if config.Primitive != metadata.PRIMITIVE_TRIANGLES || config.Usage != metadata.BUFFER_USAGE_STATIC {
		t.Fatalf("defaults = %s %s", config.Primitive, config.Usage)
	}
	if !strings.HasPrefix(config.Name, "mesh-") {
		t.Fatalf("generated name = %q", config.Name)
	}

	bad := []string{
		"[[vertices]]\nposition = [0.0, 0.0]\n",
		"[[vertices]]\nposition = [0.0, 0.0, 0.0]\ncolour = [1.0]\n",
		"[[vertices]]\nposition = [0.0, 0.0, 0.0]\ntexcoord = [1.0, 0.0, 0.0]\n",
		"primitive = \"hexagons\"\n",
	}
	for _, src := range bad {
		if _, err := ParseMesh([]byte(src)); err == nil {
			t.Errorf("expected error for %q", src)
		}
	}
}

func TestMeshLoaderNamesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad"+MeshExtension)
	src := strings.Replace(triangleMesh, `name = "tri"`, "", 1)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := &MeshLoader{}
	res, err := loader.Load(path, metadata.ResourceTypeMesh, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Name != "quad" || res.Type != metadata.ResourceTypeMesh {
		t.Fatalf("resource = %+v", res)
	}
	if _, ok := res.Data.(*metadata.MeshConfig); !ok {
		t.Fatalf("Data is %T", res.Data)
	}
	if err := loader.Unload(res); err != nil || res.Data != nil {
		t.Fatalf("Unload: %v, data %v", err, res.Data)
	}
	if _, err := loader.Load(path, metadata.ResourceTypeNone, nil); err == nil {
		t.Fatal("expected error for wrong resource type")
	}
}
