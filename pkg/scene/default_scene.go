package scene

import (
	"github.com/HenrYxZ/experiments/pkg/camera"
	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/pkg/geometry"
	"github.com/HenrYxZ/experiments/pkg/material"
)

// Default image size for the default scene (4:3 to match the sensor)
const (
	DefaultWidth  = 280
	DefaultHeight = 210
)

// NewDefaultScene creates a purple sphere at the origin seen from z = -2,
// lit from above, slightly left and in front
func NewDefaultScene() *Scene {
	cam := camera.NewCamera(
		core.NewVec3(0, 0, -2), // Camera position
		1.0,                    // Sensor half width
		0.75,                   // Sensor half height
		2.0,                    // Projection distance
	)

	sphere := geometry.NewSphere(core.NewVec3(0, 0, 0), 0.5)
	purple := core.NewVec3(128.0/255.0, 0, 128.0/255.0)

	return New(
		cam,
		sphere,
		core.NewVec3(-0.3, 1.0, -0.5),
		material.NewFloorDiffuse(purple, material.DefaultFloorScale),
		core.Vec3{}, // Black background
	)
}
