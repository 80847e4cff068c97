package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/taigrr/photon/pkg/geometry"
	"github.com/taigrr/photon/pkg/material"
	"github.com/taigrr/photon/pkg/math3d"
	"github.com/taigrr/photon/pkg/render"
)

// Defaults applied to zero fields of a scene file.
const (
	DefaultWidth          = 640
	DefaultAspect         = 16.0 / 9.0
	DefaultSamples        = 15
	DefaultMaxBounces     = 20
	DefaultViewportHeight = 2.0
	DefaultFocalLength    = 1.0
)

// ErrInvalidScene is wrapped by every scene validation error.
var ErrInvalidScene = errors.New("invalid scene")

// defaultModelColor is the albedo of model faces without a material.
var defaultModelColor = [3]float64{0.5, 0.5, 0.5}

// SceneFile is the JSON scene description.
type SceneFile struct {
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	Samples        int     `json:"samples,omitempty"`
	MaxBounces     int     `json:"maxBounces,omitempty"`
	ViewportHeight float64 `json:"viewportHeight,omitempty"`
	FocalLength    float64 `json:"focalLength,omitempty"`
	ShadowBias     float64 `json:"shadowBias,omitempty"`
	BoxPadding     float64 `json:"boxPadding,omitempty"`

	Spheres []SphereSpec `json:"spheres,omitempty"`
	Meshes  []MeshSpec   `json:"meshes,omitempty"`
	Models  []ModelSpec  `json:"models,omitempty"`
}

// MaterialSpec names a material kind and its color (albedo, or radiance for
// lights).
type MaterialSpec struct {
	Kind  string     `json:"kind"`
	Color [3]float64 `json:"color"`
}

// SphereSpec is a sphere primitive.
type SphereSpec struct {
	Center   [3]float64   `json:"center"`
	Radius   float64      `json:"radius"`
	Material MaterialSpec `json:"material"`
}

// MeshSpec is an inline triangle mesh.
type MeshSpec struct {
	Name      string       `json:"name,omitempty"`
	Vertices  [][3]float64 `json:"vertices"`
	Triangles [][3]int     `json:"triangles"`
	Material  MaterialSpec `json:"material"`
}

// ModelSpec places a model file in the scene. The model is optionally fitted
// to Fit units around the origin, then scaled, rotated about X, Y and Z in
// that order (degrees) and translated. Material, when set, replaces the
// file's materials.
type ModelSpec struct {
	Path      string        `json:"path"`
	Fit       float64       `json:"fit,omitempty"`
	Scale     float64       `json:"scale,omitempty"`
	RotateX   float64       `json:"rotateX,omitempty"`
	RotateY   float64       `json:"rotateY,omitempty"`
	RotateZ   float64       `json:"rotateZ,omitempty"`
	Translate [3]float64    `json:"translate,omitempty"`
	Material  *MaterialSpec `json:"material,omitempty"`
}

// Material resolves the kind name and color into a material.Material.
func (s MaterialSpec) Material() (material.Material, error) {
	kind, err := material.ParseKind(s.Kind)
	if err != nil {
		return material.Material{}, err
	}
	return material.Material{Kind: kind, Albedo: vec(s.Color)}, nil
}

func vec(a [3]float64) math3d.Vec3 {
	return math3d.V3(a[0], a[1], a[2])
}

// LoadSceneFile reads, defaults and validates the scene at path.
func LoadSceneFile(path string) (*SceneFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	sf, err := ParseSceneFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sf, nil
}

// ParseSceneFile decodes a scene from r, rejecting unknown fields, then
// applies defaults and validates it.
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var sf SceneFile
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	sf.ApplyDefaults()
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// ApplyDefaults fills zero settings. A missing height follows the width at
// the default aspect ratio.
func (sf *SceneFile) ApplyDefaults() {
	if sf.Width <= 0 {
		sf.Width = DefaultWidth
	}
	if sf.Height <= 0 {
		sf.Height = int(math.Round(float64(sf.Width) / DefaultAspect))
	}
	if sf.Samples <= 0 {
		sf.Samples = DefaultSamples
	}
	if sf.MaxBounces <= 0 {
		sf.MaxBounces = DefaultMaxBounces
	}
	if sf.ViewportHeight <= 0 {
		sf.ViewportHeight = DefaultViewportHeight
	}
	if sf.FocalLength <= 0 {
		sf.FocalLength = DefaultFocalLength
	}
	if sf.ShadowBias <= 0 {
		sf.ShadowBias = render.DefaultShadowBias
	}
	if sf.BoxPadding <= 0 {
		sf.BoxPadding = geometry.DefaultBoxPadding
	}
}

// Validate checks settings and objects, returning the first problem found
// wrapped in ErrInvalidScene.
func (sf *SceneFile) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidScene, fmt.Sprintf(format, args...))
	}

	switch {
	case sf.Width <= 0 || sf.Height <= 0:
		return invalid("image size %dx%d", sf.Width, sf.Height)
	case sf.Samples < 1:
		return invalid("samples %d", sf.Samples)
	case sf.MaxBounces < 0:
		return invalid("maxBounces %d", sf.MaxBounces)
	case !(sf.ViewportHeight > 0) || !(sf.FocalLength > 0):
		return invalid("viewportHeight %g, focalLength %g", sf.ViewportHeight, sf.FocalLength)
	case sf.ShadowBias < 0 || sf.BoxPadding < 0:
		return invalid("shadowBias %g, boxPadding %g", sf.ShadowBias, sf.BoxPadding)
	}
	if len(sf.Spheres)+len(sf.Meshes)+len(sf.Models) == 0 {
		return invalid("no objects")
	}

	for i, s := range sf.Spheres {
		if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
			return invalid("sphere %d: radius %g", i, s.Radius)
		}
		if _, err := s.Material.Material(); err != nil {
			return invalid("sphere %d: %v", i, err)
		}
	}
	for i, m := range sf.Meshes {
		if len(m.Triangles) == 0 {
			return invalid("mesh %d (%s): no triangles", i, m.Name)
		}
		for j, tri := range m.Triangles {
			for _, idx := range tri {
				if idx < 0 || idx >= len(m.Vertices) {
					return invalid("mesh %d (%s): triangle %d: vertex %d out of range", i, m.Name, j, idx)
				}
			}
		}
		if _, err := m.Material.Material(); err != nil {
			return invalid("mesh %d (%s): %v", i, m.Name, err)
		}
	}
	for i, m := range sf.Models {
		if m.Path == "" {
			return invalid("model %d: empty path", i)
		}
		if m.Scale < 0 || m.Fit < 0 {
			return invalid("model %d: scale %g, fit %g", i, m.Scale, m.Fit)
		}
		if m.Material != nil {
			if _, err := m.Material.Material(); err != nil {
				return invalid("model %d: %v", i, err)
			}
		}
	}
	return nil
}

// TracerOptions returns the render options the scene file configures.
func (sf *SceneFile) TracerOptions() []render.Option {
	return []render.Option{render.WithShadowBias(sf.ShadowBias)}
}

// ModelInfo describes one model file as loaded by BuildReport.
type ModelInfo struct {
	Path      string
	Vertices  int
	Triangles int // faces in the file, before degenerate ones are dropped
	Materials int
	Skipped   int // degenerate faces dropped
}

// Build constructs the scene geometry. Relative model paths resolve against
// baseDir. Degenerate triangles in inline meshes are errors; in model files
// they are dropped.
func (sf *SceneFile) Build(baseDir string) (*geometry.Scene, error) {
	scene, _, err := sf.BuildReport(baseDir)
	return scene, err
}

// BuildReport is Build that also describes every loaded model file, in
// scene file order.
func (sf *SceneFile) BuildReport(baseDir string) (*geometry.Scene, []ModelInfo, error) {
	if err := sf.Validate(); err != nil {
		return nil, nil, err
	}
	scene := geometry.NewScene(geometry.WithBoxPadding(sf.BoxPadding))

	for _, s := range sf.Spheres {
		mat, _ := s.Material.Material()
		scene.AddSphere(geometry.NewSphere(vec(s.Center), s.Radius, mat))
	}

	for i, m := range sf.Meshes {
		mat, _ := m.Material.Material()
		tm := geometry.NewTriangleMesh(mat)
		for _, v := range m.Vertices {
			tm.AddVertex(vec(v))
		}
		for j, tri := range m.Triangles {
			if err := tm.AddTriangle(tri[0], tri[1], tri[2]); err != nil {
				return nil, nil, fmt.Errorf("%w: mesh %d (%s) triangle %d: %w", ErrInvalidScene, i, m.Name, j, err)
			}
		}
		scene.AddMesh(tm)
	}

	infos := make([]ModelInfo, 0, len(sf.Models))
	for i, m := range sf.Models {
		meshes, info, err := m.build(baseDir)
		if err != nil {
			return nil, nil, fmt.Errorf("model %d (%s): %w", i, m.Path, err)
		}
		for _, tm := range meshes {
			scene.AddMesh(tm)
		}
		infos = append(infos, info)
	}
	return scene, infos, nil
}

func (m ModelSpec) build(baseDir string) ([]*geometry.TriangleMesh, ModelInfo, error) {
	path := m.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	info := ModelInfo{Path: path}
	mesh, err := LoadModel(path)
	if err != nil {
		return nil, info, err
	}
	info.Vertices = mesh.VertexCount()
	info.Triangles = mesh.TriangleCount()
	info.Materials = mesh.MaterialCount()

	if m.Fit > 0 {
		mesh.Fit(m.Fit)
	}
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	rotate := math3d.V3(m.RotateX, m.RotateY, m.RotateZ).Scale(math.Pi / 180)
	mesh.Transform(math3d.TRS(vec(m.Translate), rotate, math3d.Splat(scale)))

	fallback := material.NewLambertian(vec(defaultModelColor))
	if m.Material != nil {
		fallback, _ = m.Material.Material()
	}
	meshes, skipped, err := mesh.TriangleMeshes(fallback, m.Material != nil)
	info.Skipped = skipped
	return meshes, info, err
}
