package scene

import (
	"fmt"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/loaders"
)

// defaultYAMLBackground is used when a scene file names no background
var defaultYAMLBackground = core.NewVec3(0.2, 0.7, 0.8)

// NewYAMLScene creates a scene from a YAML file. The file's render overrides
// are returned alongside for the caller to merge into its renderer config.
func NewYAMLScene(filepath string) (*Scene, loaders.RenderSettings, error) {
	sceneFile, err := loaders.LoadScene(filepath)
	if err != nil {
		return nil, loaders.RenderSettings{}, fmt.Errorf("failed to load scene file: %w", err)
	}

	s, err := NewSceneFromFile(sceneFile)
	if err != nil {
		return nil, loaders.RenderSettings{}, fmt.Errorf("%s: %w", filepath, err)
	}
	return s, sceneFile.Render, nil
}

// NewSceneFromFile converts a parsed scene description into a Scene
func NewSceneFromFile(sceneFile *loaders.SceneFile) (*Scene, error) {
	background := defaultYAMLBackground
	if sceneFile.Background != nil {
		background = sceneFile.Background.Vec()
	}
	s := New(background)

	for i, def := range sceneFile.Spheres {
		mat, err := sceneFile.Material(def.Material)
		if err != nil {
			return nil, fmt.Errorf("failed to convert sphere %d: %w", i, err)
		}
		s.AddSphere(def.Center.Vec(), def.Radius, mat)
	}

	for i, def := range sceneFile.Planes {
		mat, err := sceneFile.Material(def.Material)
		if err != nil {
			return nil, fmt.Errorf("failed to convert plane %d: %w", i, err)
		}
		s.AddPlane(def.Point.Vec(), def.Normal.Vec(), mat)
	}

	for i, def := range sceneFile.Triangles {
		mat, err := sceneFile.Material(def.Material)
		if err != nil {
			return nil, fmt.Errorf("failed to convert triangle %d: %w", i, err)
		}
		s.AddTriangle(def.Vertices[0].Vec(), def.Vertices[1].Vec(), def.Vertices[2].Vec(), mat)
	}

	for _, def := range sceneFile.Lights {
		s.AddLight(def.Position.Vec(), def.Intensity)
	}

	logger.Debugf("converted scene file: %d shapes, %d lights", len(s.Shapes), len(s.Lights))
	return s, nil
}
