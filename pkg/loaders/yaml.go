package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/material"
	"gopkg.in/yaml.v3"
)

// SceneFile is the on-disk YAML scene description
type SceneFile struct {
	Background *Vec3                  `yaml:"background,omitempty"`
	Materials  map[string]MaterialDef `yaml:"materials,omitempty"`
	Spheres    []SphereDef            `yaml:"spheres,omitempty"`
	Planes     []PlaneDef             `yaml:"planes,omitempty"`
	Triangles  []TriangleDef          `yaml:"triangles,omitempty"`
	Lights     []LightDef             `yaml:"lights,omitempty"`
	Render     RenderSettings         `yaml:"render,omitempty"`
}

// Vec3 is a YAML triple such as [0, 1, 0]
type Vec3 [3]float64

// Vec returns the triple as a core vector
func (v Vec3) Vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// MaterialDef describes a named material. Preset names a built-in material to
// start from; any other field set overrides it.
type MaterialDef struct {
	Preset           string   `yaml:"preset,omitempty"`
	Color            *Vec3    `yaml:"color,omitempty"`
	Ambient          *float64 `yaml:"ambient,omitempty"`
	Diffuse          *float64 `yaml:"diffuse,omitempty"`
	Specular         *float64 `yaml:"specular,omitempty"`
	Refract          *float64 `yaml:"refract,omitempty"`
	Reflect          *float64 `yaml:"reflect,omitempty"`
	RefractiveIndex  *float64 `yaml:"refractive_index,omitempty"`
	SpecularExponent *float64 `yaml:"specular_exponent,omitempty"`
}

// SphereDef places a sphere. Material names an entry in materials or a preset.
type SphereDef struct {
	Center   Vec3    `yaml:"center"`
	Radius   float64 `yaml:"radius"`
	Material string  `yaml:"material"`
}

// PlaneDef places a one-sided plane facing along Normal
type PlaneDef struct {
	Point    Vec3   `yaml:"point"`
	Normal   Vec3   `yaml:"normal"`
	Material string `yaml:"material"`
}

// TriangleDef places a triangle by its three vertices
type TriangleDef struct {
	Vertices [3]Vec3 `yaml:"vertices"`
	Material string  `yaml:"material"`
}

// LightDef places a point light
type LightDef struct {
	Position  Vec3    `yaml:"position"`
	Intensity float64 `yaml:"intensity"`
}

// RenderSettings overrides renderer defaults. Zero values leave the default in place.
type RenderSettings struct {
	Width             int     `yaml:"width,omitempty"`
	Height            int     `yaml:"height,omitempty"`
	FOV               float64 `yaml:"fov,omitempty"` // degrees
	MaxDepth          int     `yaml:"max_depth,omitempty"`
	MSAA              int     `yaml:"msaa,omitempty"`
	SoftShadowSamples int     `yaml:"soft_shadow_samples,omitempty"`
	Seed              int64   `yaml:"seed,omitempty"`
}

// ParseScene decodes and validates a YAML scene description
func ParseScene(reader io.Reader) (*SceneFile, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scene file is empty")
		}
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// ParseSceneBytes is ParseScene over an in-memory document
func ParseSceneBytes(data []byte) (*SceneFile, error) {
	return ParseScene(bytes.NewReader(data))
}

// LoadScene loads and parses a YAML scene file
func LoadScene(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sceneFile, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sceneFile, nil
}

// Validate checks geometry and material references
func (f *SceneFile) Validate() error {
	if len(f.Spheres) == 0 && len(f.Planes) == 0 && len(f.Triangles) == 0 {
		return fmt.Errorf("scene has no spheres, planes or triangles")
	}

	for name, def := range f.Materials {
		if def.Preset != "" {
			if _, err := material.Preset(def.Preset); err != nil {
				return fmt.Errorf("material %q: %w", name, err)
			}
		}
	}

	for i, sphere := range f.Spheres {
		if !(sphere.Radius > 0) || math.IsInf(sphere.Radius, 0) {
			return fmt.Errorf("sphere %d: radius must be positive and finite, got %v", i, sphere.Radius)
		}
		if !sphere.Center.Vec().IsFinite() {
			return fmt.Errorf("sphere %d: center must be finite", i)
		}
		if err := f.checkMaterial(sphere.Material); err != nil {
			return fmt.Errorf("sphere %d: %w", i, err)
		}
	}

	for i, plane := range f.Planes {
		if plane.Normal.Vec().IsZero() {
			return fmt.Errorf("plane %d: normal must be non-zero", i)
		}
		if !plane.Point.Vec().IsFinite() || !plane.Normal.Vec().IsFinite() {
			return fmt.Errorf("plane %d: point and normal must be finite", i)
		}
		if err := f.checkMaterial(plane.Material); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}

	for i, triangle := range f.Triangles {
		v0, v1, v2 := triangle.Vertices[0].Vec(), triangle.Vertices[1].Vec(), triangle.Vertices[2].Vec()
		if !v0.IsFinite() || !v1.IsFinite() || !v2.IsFinite() {
			return fmt.Errorf("triangle %d: vertices must be finite", i)
		}
		if v1.Subtract(v0).Cross(v2.Subtract(v0)).IsZero() {
			return fmt.Errorf("triangle %d: vertices must not be collinear", i)
		}
		if err := f.checkMaterial(triangle.Material); err != nil {
			return fmt.Errorf("triangle %d: %w", i, err)
		}
	}

	for i, light := range f.Lights {
		if light.Intensity < 0 {
			return fmt.Errorf("light %d: intensity must not be negative", i)
		}
	}

	return nil
}

func (f *SceneFile) checkMaterial(name string) error {
	_, err := f.Material(name)
	return err
}

// Material resolves a material name against the file's materials, then the
// built-in presets
func (f *SceneFile) Material(name string) (material.Material, error) {
	if name == "" {
		return material.Material{}, fmt.Errorf("material name is required")
	}

	def, ok := f.Materials[name]
	if !ok {
		mat, err := material.Preset(name)
		if err != nil {
			return material.Material{}, fmt.Errorf("unknown material %q", name)
		}
		return mat, nil
	}

	return def.Resolve()
}

// Resolve builds the material, starting from the preset when one is named
func (d MaterialDef) Resolve() (material.Material, error) {
	mat := material.NewMaterial(core.NewVec3(1, 1, 1), 1)
	if d.Preset != "" {
		preset, err := material.Preset(d.Preset)
		if err != nil {
			return material.Material{}, err
		}
		mat = preset
	}

	if d.Color != nil {
		mat.Color = d.Color.Vec()
	}
	setIf(&mat.Ambient, d.Ambient)
	setIf(&mat.Diffuse, d.Diffuse)
	setIf(&mat.Specular, d.Specular)
	setIf(&mat.Refract, d.Refract)
	setIf(&mat.Reflect, d.Reflect)
	setIf(&mat.RefractiveIndex, d.RefractiveIndex)
	setIf(&mat.SpecularExponent, d.SpecularExponent)

	return mat, nil
}

func setIf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// validateFilePath validates a scene file path before it is opened
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	cleanPath := filepath.Clean(filename)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("invalid file type: only .yaml files are allowed")
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}
