package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Identifier accepted by the render command
	Name        string // Scene name
	Description string // Optional description
	Type        string // "builtin" or "yaml"
	FilePath    string // Path to the scene file (yaml type only)
}

// Built-in scene identifiers
const (
	DefaultSceneID       = "default"
	SphereGridSceneID    = "grid"
	RandomSpheresSceneID = "random"
)

var builtinScenes = []SceneInfo{
	{
		ID:          DefaultSceneID,
		Name:        "Default Scene",
		Description: "Two spheres in a five-walled room with one light",
		Type:        "builtin",
	},
	{
		ID:          SphereGridSceneID,
		Name:        "Sphere Grid",
		Description: "20x20 grid of colored spheres on a floor plane",
		Type:        "builtin",
	},
	{
		ID:          RandomSpheresSceneID,
		Name:        "Random Spheres",
		Description: "10,000 non-overlapping spheres scattered through a cube",
		Type:        "builtin",
	},
}

// ListBuiltinScenes returns the scenes that can be created by ID
func ListBuiltinScenes() []SceneInfo {
	return append([]SceneInfo(nil), builtinScenes...)
}

// NewBuiltinScene creates a built-in scene by ID. The seed only affects
// randomly generated scenes.
func NewBuiltinScene(id string, seed int64) (*Scene, error) {
	switch id {
	case DefaultSceneID:
		return NewDefaultScene(), nil
	case SphereGridSceneID:
		return NewSphereGridScene(20), nil
	case RandomSpheresSceneID:
		return NewRandomSpheresScene(10000, seed), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", id)
	}
}

// ListYAMLScenes scans dir for *.yaml scene files. A missing directory yields
// an empty list.
func ListYAMLScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			logger.Warningf("failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the leading comment block of a
// scene file:
//
//	# Scene: Glass Spheres
//	# Description: Three glass spheres over a mirror floor
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Type:     "yaml",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(value)
		}
	}

	return info, scanner.Err()
}

// titleCase converts a file name like "glass-spheres" to "Glass Spheres"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
