package material

import (
	"fmt"
	"sort"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// Material is a Phong-style surface description. It is a plain value and is
// copied into every hit record.
type Material struct {
	Color            core.Vec3 // Base RGB color
	Ambient          float64   // ka
	Diffuse          float64   // kd
	Specular         float64   // ks
	Refract          float64   // kr, weight of the refracted contribution
	Reflect          float64   // Weight of the mirror contribution
	RefractiveIndex  float64   // Index of refraction used for transmitted rays
	SpecularExponent float64   // Phong exponent
}

// NewMaterial creates a material with the given color and diffuse weight and
// the remaining coefficients at neutral defaults
func NewMaterial(color core.Vec3, diffuse float64) Material {
	return Material{
		Color:            color,
		Ambient:          1.0,
		Diffuse:          diffuse,
		RefractiveIndex:  1.0,
		SpecularExponent: 10,
	}
}

// Reflects reports whether rays should be traced in the mirror direction
func (m Material) Reflects() bool {
	return m.Reflect > 0
}

// Refracts reports whether rays should be traced through the surface
func (m Material) Refracts() bool {
	return m.Refract > 0 && m.RefractiveIndex > 0
}

var presets = map[string]Material{
	"ivory": {
		Color: core.NewVec3(0.4, 0.4, 0.3), Ambient: 1.0, Diffuse: 0.6, Specular: 0.3,
		Refract: 0.0, Reflect: 0.1, RefractiveIndex: 1.0, SpecularExponent: 50,
	},
	"glass": {
		Color: core.NewVec3(0.6, 0.7, 0.8), Ambient: 1.0, Diffuse: 0.0, Specular: 0.5,
		Refract: 0.8, Reflect: 0.0, RefractiveIndex: 1.5, SpecularExponent: 125,
	},
	"red_rubber": {
		Color: core.NewVec3(0.3, 0.1, 0.1), Ambient: 1.0, Diffuse: 0.9, Specular: 0.1,
		RefractiveIndex: 1.0, SpecularExponent: 10,
	},
	"white_rubber": {
		Color: core.NewVec3(0.6, 0.6, 0.6), Ambient: 1.0, Diffuse: 0.9, Specular: 0.1,
		RefractiveIndex: 1.0, SpecularExponent: 10,
	},
	"blue_rubber": {
		Color: core.NewVec3(0.1, 0.1, 0.6), Ambient: 0.15, Diffuse: 0.9, Specular: 0.3,
		RefractiveIndex: 1.0, SpecularExponent: 10,
	},
	"yellow_rubber": {
		Color: core.NewVec3(0.4, 0.4, 0.1), Ambient: 0.15, Diffuse: 0.9, Specular: 0.3,
		RefractiveIndex: 1.0, SpecularExponent: 10,
	},
	"mirror": {
		Color: core.NewVec3(1.0, 1.0, 1.0), Ambient: 0.15, Diffuse: 0.0, Specular: 0.9,
		Refract: 0.0, Reflect: 0.8, RefractiveIndex: 1.0, SpecularExponent: 1425,
	},
}

// Preset returns a named built-in material
func Preset(name string) (Material, error) {
	m, ok := presets[name]
	if !ok {
		return Material{}, fmt.Errorf("unknown material preset %q", name)
	}
	return m, nil
}

// MustPreset is like Preset but panics on unknown names. Intended for
// built-in scenes where the name is a constant.
func MustPreset(name string) Material {
	m, err := Preset(name)
	if err != nil {
		panic(err)
	}
	return m
}

// PresetNames returns the sorted names of all built-in materials
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
