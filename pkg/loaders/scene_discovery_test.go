package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestListScenes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "close-up.yaml"), "# Scene: Close Up\n# Description: Big sphere\nsphere:\n  radius: 0.9\n")
	writeFile(t, filepath.Join(dir, "wide_view.toml"), "[camera]\nsensorHalfWidth = 2.0\n")
	writeFile(t, filepath.Join(dir, "blue.json"), `{"background": [0, 0, 1]}`)
	writeFile(t, filepath.Join(dir, "render.png"), "not a scene")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	scenes, err := ListScenes(dir)
	require.NoError(t, err)
	require.Len(t, scenes, 3)

	assert.Equal(t, SceneInfo{ID: "blue", Name: "Blue", Format: "json", FilePath: filepath.Join(dir, "blue.json")}, scenes[0])
	assert.Equal(t, SceneInfo{
		ID:          "close-up",
		Name:        "Close Up",
		Description: "Big sphere",
		Format:      "yaml",
		FilePath:    filepath.Join(dir, "close-up.yaml"),
	}, scenes[1])
	assert.Equal(t, "Wide View", scenes[2].Name)
	assert.Equal(t, "toml", scenes[2].Format)
}

func TestListScenes_MissingDirectory(t *testing.T) {
	scenes, err := ListScenes(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, scenes)
}

func TestParseSceneMetadata_StopsAtFirstNonComment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.yaml")
	writeFile(t, path, "sphere:\n  radius: 0.3\n# Scene: Too Late\n")

	info, err := ParseSceneMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "Late", info.Name)
}

func TestResolveScenePath(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "default.yaml")
	tomlPath := filepath.Join(dir, "other.toml")
	writeFile(t, yamlPath, "")
	writeFile(t, tomlPath, "")

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"existing path", tomlPath, tomlPath, false},
		{"name resolves to yaml", "default", yamlPath, false},
		{"name resolves to toml", "other", tomlPath, false},
		{"unknown name", "missing", "", true},
		{"missing file with extension", "missing.yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveScenePath(tt.input, dir)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Close Up", titleCase("close-up"))
	assert.Equal(t, "Wide View Two", titleCase("wide_view-two"))
	assert.Equal(t, "", titleCase(""))
}
