package loaders

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/pkg/material"
	"github.com/HenrYxZ/experiments/pkg/renderer"
	"github.com/HenrYxZ/experiments/pkg/scene"
)

// Vec is a 3-component vector as written in scene files: [x, y, z]
type Vec [3]float64

func (v *Vec) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func vecOf(v core.Vec3) *Vec {
	return &Vec{v.X, v.Y, v.Z}
}

// CameraSpec describes the camera block of a scene file
type CameraSpec struct {
	Position           *Vec     `yaml:"position,omitempty" toml:"position,omitempty" json:"position,omitempty"`
	Right              *Vec     `yaml:"right,omitempty" toml:"right,omitempty" json:"right,omitempty"`
	Up                 *Vec     `yaml:"up,omitempty" toml:"up,omitempty" json:"up,omitempty"`
	Forward            *Vec     `yaml:"forward,omitempty" toml:"forward,omitempty" json:"forward,omitempty"`
	SensorHalfWidth    *float64 `yaml:"sensorHalfWidth,omitempty" toml:"sensorHalfWidth,omitempty" json:"sensorHalfWidth,omitempty"`
	SensorHalfHeight   *float64 `yaml:"sensorHalfHeight,omitempty" toml:"sensorHalfHeight,omitempty" json:"sensorHalfHeight,omitempty"`
	ProjectionDistance *float64 `yaml:"projectionDistance,omitempty" toml:"projectionDistance,omitempty" json:"projectionDistance,omitempty"`
}

// SphereSpec describes the sphere block of a scene file
type SphereSpec struct {
	Center *Vec     `yaml:"center,omitempty" toml:"center,omitempty" json:"center,omitempty"`
	Radius *float64 `yaml:"radius,omitempty" toml:"radius,omitempty" json:"radius,omitempty"`
}

// LightSpec describes the directional light; the direction is normalized on load
type LightSpec struct {
	Direction *Vec `yaml:"direction,omitempty" toml:"direction,omitempty" json:"direction,omitempty"`
}

// MaterialSpec describes the surface color. Floor wins over FloorScale when both are set.
type MaterialSpec struct {
	Base       *Vec     `yaml:"base,omitempty" toml:"base,omitempty" json:"base,omitempty"`
	FloorScale *float64 `yaml:"floorScale,omitempty" toml:"floorScale,omitempty" json:"floorScale,omitempty"`
	Floor      *Vec     `yaml:"floor,omitempty" toml:"floor,omitempty" json:"floor,omitempty"`
}

// RenderSpec holds optional image size and sampling settings
type RenderSpec struct {
	Width             *int   `yaml:"width,omitempty" toml:"width,omitempty" json:"width,omitempty"`
	Height            *int   `yaml:"height,omitempty" toml:"height,omitempty" json:"height,omitempty"`
	HorizontalSamples *int   `yaml:"horizontalSamples,omitempty" toml:"horizontalSamples,omitempty" json:"horizontalSamples,omitempty"`
	VerticalSamples   *int   `yaml:"verticalSamples,omitempty" toml:"verticalSamples,omitempty" json:"verticalSamples,omitempty"`
	Seed              *int64 `yaml:"seed,omitempty" toml:"seed,omitempty" json:"seed,omitempty"`
	Workers           *int   `yaml:"workers,omitempty" toml:"workers,omitempty" json:"workers,omitempty"`
}

// SceneFile is the on-disk scene description shared by the YAML, TOML and JSON
// encodings. Every field is optional; missing values come from the default scene.
type SceneFile struct {
	Camera     *CameraSpec   `yaml:"camera,omitempty" toml:"camera,omitempty" json:"camera,omitempty"`
	Sphere     *SphereSpec   `yaml:"sphere,omitempty" toml:"sphere,omitempty" json:"sphere,omitempty"`
	Light      *LightSpec    `yaml:"light,omitempty" toml:"light,omitempty" json:"light,omitempty"`
	Material   *MaterialSpec `yaml:"material,omitempty" toml:"material,omitempty" json:"material,omitempty"`
	Background *Vec          `yaml:"background,omitempty" toml:"background,omitempty" json:"background,omitempty"`
	Render     *RenderSpec   `yaml:"render,omitempty" toml:"render,omitempty" json:"render,omitempty"`
}

// LoadScene reads a scene file, picking the decoder from the extension
func LoadScene(path string) (*SceneFile, error) {
	format, err := FormatFromExt(filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	return DecodeScene(bufio.NewReader(file), format)
}

// DecodeScene parses a scene description. Unknown keys are rejected so typos
// do not silently fall back to defaults.
func DecodeScene(r io.Reader, format Format) (*SceneFile, error) {
	var sf SceneFile

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&sf); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode yaml scene: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sf); err != nil {
			return nil, fmt.Errorf("failed to decode toml scene: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&sf); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode json scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("%s is not a scene format", format)
	}

	return &sf, nil
}

// EncodeScene writes a scene description in the given format
func EncodeScene(w io.Writer, sf *SceneFile, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sf); err != nil {
			return fmt.Errorf("failed to encode yaml scene: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(sf); err != nil {
			return fmt.Errorf("failed to encode toml scene: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sf); err != nil {
			return fmt.Errorf("failed to encode json scene: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%s is not a scene format", format)
}

// FromScene describes an existing scene as a fully populated scene file
func FromScene(s *scene.Scene, width, height int, sampling renderer.SamplingConfig) *SceneFile {
	cam := s.Camera
	return &SceneFile{
		Camera: &CameraSpec{
			Position:           vecOf(cam.Position),
			Right:              vecOf(cam.Right),
			Up:                 vecOf(cam.Up),
			Forward:            vecOf(cam.Forward),
			SensorHalfWidth:    &cam.SensorHalfWidth,
			SensorHalfHeight:   &cam.SensorHalfHeight,
			ProjectionDistance: &cam.ProjectionDistance,
		},
		Sphere: &SphereSpec{
			Center: vecOf(s.Sphere.Center),
			Radius: &s.Sphere.Radius,
		},
		Light:      &LightSpec{Direction: vecOf(s.LightDirection)},
		Material:   &MaterialSpec{Base: vecOf(s.Material.Base), Floor: vecOf(s.Material.Floor)},
		Background: vecOf(s.Background),
		Render: &RenderSpec{
			Width:             &width,
			Height:            &height,
			HorizontalSamples: &sampling.HorizontalSamples,
			VerticalSamples:   &sampling.VerticalSamples,
			Seed:              &sampling.Seed,
			Workers:           &sampling.NumWorkers,
		},
	}
}

// Scene builds a validated scene, filling gaps from the default scene
func (sf *SceneFile) Scene() (*scene.Scene, error) {
	s := scene.NewDefaultScene()
	cam := s.Camera
	sphere := s.Sphere
	lightDir := s.LightDirection
	mat := s.Material
	background := s.Background

	if c := sf.Camera; c != nil {
		setVec(&cam.Position, c.Position)
		setVec(&cam.Right, c.Right)
		setVec(&cam.Up, c.Up)
		setVec(&cam.Forward, c.Forward)
		setFloat(&cam.SensorHalfWidth, c.SensorHalfWidth)
		setFloat(&cam.SensorHalfHeight, c.SensorHalfHeight)
		setFloat(&cam.ProjectionDistance, c.ProjectionDistance)
	}
	if sp := sf.Sphere; sp != nil {
		setVec(&sphere.Center, sp.Center)
		setFloat(&sphere.Radius, sp.Radius)
	}
	if l := sf.Light; l != nil {
		setVec(&lightDir, l.Direction)
	}
	if m := sf.Material; m != nil {
		base := mat.Base
		setVec(&base, m.Base)
		scale := material.DefaultFloorScale
		setFloat(&scale, m.FloorScale)
		mat = material.NewFloorDiffuse(base, scale)
		setVec(&mat.Floor, m.Floor)
	}
	setVec(&background, sf.Background)

	result := scene.New(cam, sphere, lightDir, mat, background)
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// Size returns the image size from the render block, or the given defaults
func (sf *SceneFile) Size(defaultWidth, defaultHeight int) (int, int) {
	width, height := defaultWidth, defaultHeight
	if r := sf.Render; r != nil {
		setInt(&width, r.Width)
		setInt(&height, r.Height)
	}
	return width, height
}

// Sampling overlays the render block onto base
func (sf *SceneFile) Sampling(base renderer.SamplingConfig) renderer.SamplingConfig {
	if r := sf.Render; r != nil {
		setInt(&base.HorizontalSamples, r.HorizontalSamples)
		setInt(&base.VerticalSamples, r.VerticalSamples)
		setInt(&base.NumWorkers, r.Workers)
		if r.Seed != nil {
			base.Seed = *r.Seed
		}
	}
	return base
}

func setVec(dst *core.Vec3, src *Vec) {
	if src != nil {
		*dst = src.toVec3()
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
