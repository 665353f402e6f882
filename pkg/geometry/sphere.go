package geometry

import (
	"math"

	"github.com/HenrYxZ/experiments/pkg/core"
)

// NoHit is returned by Intersect when the ray has no usable root
const NoHit = -1.0

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// Intersect returns the nearest hit distance of the ray with the sphere, or NoHit.
// The ray direction must be unit length.
func (s Sphere) Intersect(ray core.Ray) float64 {
	return Intersect(ray.Origin, ray.Direction, s.Center, s.Radius)
}

// Normal returns the outward unit normal at a point on the surface
func (s Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Intersect solves |origin + t*direction - center|^2 = radius^2 for a unit
// direction and returns the near root. It reports NoHit when the center lies
// behind the origin or the ray misses. The near root may still be negative
// when the origin is inside the sphere; callers treat t <= 0 as no hit.
func Intersect(origin, direction, center core.Vec3, radius float64) float64 {
	// Vector from sphere center to ray origin
	diff := origin.Subtract(center)

	// With |direction| = 1 the quadratic reduces to t^2 + 2bt + c = 0
	b := direction.Dot(diff)
	c := diff.LengthSquared() - radius*radius
	discriminant := b*b - c

	if b > 0 || discriminant < 0 {
		return NoHit
	}

	return -b - math.Sqrt(discriminant)
}
