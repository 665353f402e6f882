package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultScenesDir is where scene files are looked up by name
const DefaultScenesDir = "scenes"

// SceneInfo represents a discovered scene file with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // File name without extension
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Format      string `json:"format"`      // yaml, toml or json
	FilePath    string `json:"filePath"`
}

// ListScenes scans dir for scene files. A missing directory yields an empty list.
func ListScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, err := FormatFromExt(filepath.Ext(entry.Name()))
		if err != nil || format.IsImage() {
			continue
		}
		info, err := ParseSceneMetadata(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes, nil
}

// ParseSceneMetadata reads "# Scene:" and "# Description:" lines from the
// comment header of a YAML or TOML scene file. JSON files only get fallback values.
func ParseSceneMetadata(path string) (SceneInfo, error) {
	filename := filepath.Base(path)
	id := strings.TrimSuffix(filename, filepath.Ext(filename))
	format, err := FormatFromExt(filepath.Ext(filename))
	if err != nil {
		return SceneInfo{}, err
	}

	info := SceneInfo{
		ID:       id,
		Name:     titleCase(id),
		Format:   format.String(),
		FilePath: path,
	}

	file, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if name, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(name)
		} else if desc, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(desc)
		}
	}
	return info, scanner.Err()
}

// ResolveScenePath turns a scene name into a file path. Anything that already
// names an existing file is returned as is; otherwise dir is searched for
// name.yaml, name.yml, name.toml and name.json in that order.
func ResolveScenePath(name, dir string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if filepath.Ext(name) == "" {
		for _, ext := range []string{".yaml", ".yml", ".toml", ".json"} {
			candidate := filepath.Join(dir, name+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("scene %q not found in %s", name, dir)
}

// titleCase converts a filename-style string to title case
// e.g., "close-up" -> "Close Up"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
