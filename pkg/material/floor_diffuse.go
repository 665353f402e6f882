package material

import (
	"github.com/HenrYxZ/experiments/pkg/core"
)

// DefaultFloorScale is the fraction of the base color kept on unlit surfaces
const DefaultFloorScale = 0.2

// FloorDiffuse is a diffuse-like material whose color never drops below Floor.
// The floor keeps the side facing away from the light visible as a dim
// silhouette instead of pure black.
type FloorDiffuse struct {
	Base  core.Vec3 // Color at full illumination, each channel in [0,1]
	Floor core.Vec3 // Per-channel lower bound
}

// NewFloorDiffuse creates a material whose floor is base scaled by floorScale
func NewFloorDiffuse(base core.Vec3, floorScale float64) FloorDiffuse {
	return FloorDiffuse{
		Base:  base,
		Floor: base.Multiply(floorScale),
	}
}

// Shade returns the color seen at a surface point with the given unit normal
func (m FloorDiffuse) Shade(normal, lightDir core.Vec3) core.Vec3 {
	return Shade(normal, lightDir, m.Base, m.Floor)
}

// Shade computes max(dot(normal, lightDir) * base, floor) per channel.
// lightDir points toward the light.
func Shade(normal, lightDir, base, floor core.Vec3) core.Vec3 {
	diffuse := normal.Dot(lightDir)
	return base.Multiply(diffuse).Max(floor)
}
