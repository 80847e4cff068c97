// Package material implements the surface scattering model: diffuse,
// mirror and light-emitting surfaces.
package material

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/taigrr/photon/pkg/math3d"
)

// Kind selects how a surface responds to an incoming ray.
type Kind int

const (
	// Lambertian scatters diffusely around the surface normal.
	Lambertian Kind = iota
	// Metal reflects like a perfect mirror.
	Metal
	// Emissive absorbs every ray and emits its albedo as light.
	Emissive
)

// String returns the lowercase kind name used in scene files.
func (k Kind) String() string {
	switch k {
	case Lambertian:
		return "lambertian"
	case Metal:
		return "metal"
	case Emissive:
		return "emissive"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a kind name, case-insensitively. "diffuse", "mirror" and
// "light" are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lambertian", "diffuse", "":
		return Lambertian, nil
	case "metal", "mirror":
		return Metal, nil
	case "emissive", "light":
		return Emissive, nil
	}
	return 0, fmt.Errorf("unknown material kind %q", s)
}

// Material is a surface description. Albedo is the reflectance for
// Lambertian and Metal surfaces and the emitted radiance for Emissive ones.
// Channels may exceed 1 for bright lights.
type Material struct {
	Kind   Kind
	Albedo math3d.Vec3
}

// NewLambertian creates a diffuse material.
func NewLambertian(albedo math3d.Vec3) Material {
	return Material{Kind: Lambertian, Albedo: albedo}
}

// NewMetal creates a mirror material.
func NewMetal(albedo math3d.Vec3) Material {
	return Material{Kind: Metal, Albedo: albedo}
}

// NewEmissive creates a light source. NewEmissive(math3d.Vec3{}) is a
// perfect absorber.
func NewEmissive(radiance math3d.Vec3) Material {
	return Material{Kind: Emissive, Albedo: radiance}
}

// Scatter computes the continuation of ray in after it hits a surface at
// point with unit normal facing the incoming ray. It returns false when
// the path terminates at this surface.
func (m Material) Scatter(in math3d.Ray, point, normal math3d.Vec3, rng *rand.Rand) (attenuation math3d.Vec3, out math3d.Ray, ok bool) {
	switch m.Kind {
	case Lambertian:
		dir := normal.Add(math3d.RandomUnitVector(rng))
		return m.Albedo, math3d.NewRay(point, dir), true
	case Metal:
		dir := in.Direction.Reflect(normal)
		return m.Albedo, math3d.NewRay(point, dir), true
	default:
		return math3d.Vec3{}, math3d.Ray{}, false
	}
}

// Emission returns the radiance the surface emits.
func (m Material) Emission() math3d.Vec3 {
	if m.Kind == Emissive {
		return m.Albedo
	}
	return math3d.Vec3{}
}
