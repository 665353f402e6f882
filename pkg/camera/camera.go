package camera

import (
	"github.com/HenrYxZ/experiments/pkg/core"
)

// Camera is a pinhole camera looking through a rectangular sensor placed
// ProjectionDistance units along Forward. Right, Up and Forward are expected
// to be orthonormal; they are used as given.
type Camera struct {
	Position           core.Vec3
	Right              core.Vec3
	Up                 core.Vec3
	Forward            core.Vec3
	SensorHalfWidth    float64
	SensorHalfHeight   float64
	ProjectionDistance float64
}

// NewCamera creates a camera at position using the standard basis
func NewCamera(position core.Vec3, sensorHalfWidth, sensorHalfHeight, projectionDistance float64) Camera {
	return Camera{
		Position:           position,
		Right:              core.NewVec3(1, 0, 0),
		Up:                 core.NewVec3(0, 1, 0),
		Forward:            core.NewVec3(0, 0, 1),
		SensorHalfWidth:    sensorHalfWidth,
		SensorHalfHeight:   sensorHalfHeight,
		ProjectionDistance: projectionDistance,
	}
}

// ImagePlaneOrigin returns the bottom-left corner of the sensor in world space
func (c Camera) ImagePlaneOrigin() core.Vec3 {
	return c.Position.
		Add(c.Right.Multiply(-c.SensorHalfWidth)).
		Add(c.Up.Multiply(-c.SensorHalfHeight)).
		Add(c.Forward.Multiply(c.ProjectionDistance))
}

// Project maps a continuous pixel coordinate to a point on the image plane.
// origin is normally the result of ImagePlaneOrigin, computed once per render.
func (c Camera) Project(width, height int, pixel core.Vec2, origin core.Vec3) core.Vec3 {
	return ProjectPixel(c.SensorHalfWidth, c.SensorHalfHeight, c.Right, c.Up, height, width, pixel, origin)
}

// RayDirection returns the unit direction from the camera position through point
func (c Camera) RayDirection(point core.Vec3) core.Vec3 {
	return point.Subtract(c.Position).Normalize()
}

// GetRay returns the primary ray through a point on the image plane
func (c Camera) GetRay(point core.Vec3) core.Ray {
	return core.NewRay(c.Position, c.RayDirection(point))
}

// ProjectPixel maps pixel coordinates (px, py) to a point on the image plane.
// Rows grow downward in the image while the sensor's up axis grows upward, so
// py is measured from the bottom edge.
func ProjectPixel(sensorHalfWidth, sensorHalfHeight float64, right, up core.Vec3, imageHeight, imageWidth int, pixel core.Vec2, origin core.Vec3) core.Vec3 {
	w := float64(imageWidth)
	h := float64(imageHeight)

	xOffset := (pixel.X / w) * (2 * sensorHalfWidth)
	yOffset := ((h - pixel.Y) / h) * (2 * sensorHalfHeight)

	return origin.Add(right.Multiply(xOffset)).Add(up.Multiply(yOffset))
}
