package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/HenrYxZ/experiments/pkg/camera"
	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/pkg/geometry"
	"github.com/HenrYxZ/experiments/pkg/material"
)

// ErrInvalidConfig is wrapped by every configuration error reported before rendering
var ErrInvalidConfig = errors.New("invalid configuration")

// Scene contains everything needed to shade a ray. It is read-only during a render.
type Scene struct {
	Camera         camera.Camera
	Sphere         geometry.Sphere
	LightDirection core.Vec3 // Unit vector pointing toward the light
	Material       material.FloorDiffuse
	Background     core.Vec3 // Color of rays that miss the sphere
}

// New creates a scene and normalizes the light direction.
// A zero light direction is kept as is and yields floor-only shading.
func New(cam camera.Camera, sphere geometry.Sphere, lightDir core.Vec3, mat material.FloorDiffuse, background core.Vec3) *Scene {
	return &Scene{
		Camera:         cam,
		Sphere:         sphere,
		LightDirection: lightDir.Normalize(),
		Material:       mat,
		Background:     background,
	}
}

// Validate rejects configurations that cannot produce an image
func (s *Scene) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: scene is nil", ErrInvalidConfig)
	}
	if !positive(s.Camera.SensorHalfWidth) || !positive(s.Camera.SensorHalfHeight) {
		return fmt.Errorf("%w: sensor extents must be positive, got %gx%g",
			ErrInvalidConfig, s.Camera.SensorHalfWidth, s.Camera.SensorHalfHeight)
	}
	if !positive(s.Camera.ProjectionDistance) {
		return fmt.Errorf("%w: projection distance must be positive, got %g",
			ErrInvalidConfig, s.Camera.ProjectionDistance)
	}
	if !positive(s.Sphere.Radius) {
		return fmt.Errorf("%w: sphere radius must be positive, got %g", ErrInvalidConfig, s.Sphere.Radius)
	}
	return nil
}

// positive reports whether x is a finite number greater than zero.
// NaN fails every comparison, so it is rejected here too.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
