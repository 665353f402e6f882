package core

import "math/rand"

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator.
// It is not safe for concurrent use; give each worker its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler backed by a fresh generator with the given seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// ConstantSampler returns the same sample on every call
type ConstantSampler struct {
	Value Vec2
}

// NewConstantSampler creates a sampler that always returns (x, y)
func NewConstantSampler(x, y float64) *ConstantSampler {
	return &ConstantSampler{Value: NewVec2(x, y)}
}

// Get1D returns the X component of the fixed sample
func (c *ConstantSampler) Get1D() float64 {
	return c.Value.X
}

// Get2D returns the fixed sample
func (c *ConstantSampler) Get2D() Vec2 {
	return c.Value
}
