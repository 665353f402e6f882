package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/pkg/scene"
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	HorizontalSamples int   // Jitter grid columns per pixel
	VerticalSamples   int   // Jitter grid rows per pixel
	Seed              int64 // Base seed; row j uses Seed+j
	NumWorkers        int   // Number of parallel workers (0 = use CPU count)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		HorizontalSamples: 1,
		VerticalSamples:   1,
		Seed:              42,
		NumWorkers:        0,
	}
}

// SamplesPerPixel returns the size of the jitter grid
func (c SamplingConfig) SamplesPerPixel() int {
	return c.HorizontalSamples * c.VerticalSamples
}

// SamplerFactory returns the sampler used for one row of the image
type SamplerFactory func(row int) core.Sampler

// Raytracer handles the rendering process
type Raytracer struct {
	scene      *scene.Scene
	width      int
	height     int
	config     SamplingConfig
	newSampler SamplerFactory
	logger     core.Logger
	stats      RenderStats
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, width, height int) *Raytracer {
	rt := &Raytracer{
		scene:  s,
		width:  width,
		height: height,
		config: DefaultSamplingConfig(),
		logger: core.NopLogger{},
	}
	rt.newSampler = rt.seededSampler
	return rt
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetSamplerFactory overrides how each row gets its sampler.
// Passing nil restores the seeded default.
func (rt *Raytracer) SetSamplerFactory(factory SamplerFactory) {
	if factory == nil {
		factory = rt.seededSampler
	}
	rt.newSampler = factory
}

// SetLogger sets the logger for rendering output
func (rt *Raytracer) SetLogger(logger core.Logger) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	rt.logger = logger
}

// Stats returns statistics from the last successful render
func (rt *Raytracer) Stats() RenderStats {
	return rt.stats
}

// seededSampler gives every row its own generator so results do not depend
// on how rows are scheduled across workers
func (rt *Raytracer) seededSampler(row int) core.Sampler {
	return core.NewSeededSampler(rt.config.Seed + int64(row))
}

// Validate checks image size, sampling grid and scene before rendering
func (rt *Raytracer) Validate() error {
	if rt.width <= 0 || rt.height <= 0 {
		return fmt.Errorf("%w: image dimensions must be positive, got %dx%d",
			scene.ErrInvalidConfig, rt.width, rt.height)
	}
	if rt.config.HorizontalSamples <= 0 || rt.config.VerticalSamples <= 0 {
		return fmt.Errorf("%w: anti-aliasing grid must be positive, got %dx%d",
			scene.ErrInvalidConfig, rt.config.HorizontalSamples, rt.config.VerticalSamples)
	}
	return rt.scene.Validate()
}

// Render traces every pixel of the image and returns the finished frame buffer.
// Either the whole buffer is produced or an error is returned and no buffer
// is allocated or handed back.
func (rt *Raytracer) Render(ctx context.Context) (*FrameBuffer, error) {
	if err := rt.Validate(); err != nil {
		return nil, err
	}

	pool := NewWorkerPool(rt.config.NumWorkers)
	rt.logger.Printf("Rendering %dx%d with %dx%d samples per pixel (using %d workers)...\n",
		rt.width, rt.height, rt.config.HorizontalSamples, rt.config.VerticalSamples, pool.GetNumWorkers())

	startTime := time.Now()
	fb := NewFrameBuffer(rt.width, rt.height)
	origin := rt.scene.Camera.ImagePlaneOrigin()
	rows := make([]rowStats, rt.height)

	err := pool.Run(ctx, rt.height, func(j int) error {
		rows[j] = rt.renderRow(j, fb.Row(j), origin, rt.newSampler(j))
		return nil
	})
	if err != nil {
		rt.logger.Printf("Render aborted: %v\n", err)
		return nil, err
	}

	stats := RenderStats{
		TotalPixels: rt.width * rt.height,
		NumWorkers:  pool.GetNumWorkers(),
		Duration:    time.Since(startTime),
	}
	mergeRowStats(&stats, rows)
	rt.stats = stats

	rt.logger.Printf("Render completed in %v (%d/%d samples hit the sphere)\n",
		stats.Duration, stats.HitSamples, stats.TotalSamples)

	return fb, nil
}

// renderRow fills one row of pixels
func (rt *Raytracer) renderRow(j int, row []uint8, origin core.Vec3, sampler core.Sampler) rowStats {
	var stats rowStats
	for i := 0; i < rt.width; i++ {
		color, hits := rt.tracePixel(i, j, origin, sampler)
		rgb := vec3ToRGB(color)
		copy(row[i*BytesPerPixel:(i+1)*BytesPerPixel], rgb[:])

		stats.samples += rt.config.SamplesPerPixel()
		stats.hits += hits
	}
	return stats
}

// tracePixel averages the jittered sub-samples of pixel (i, j)
func (rt *Raytracer) tracePixel(i, j int, origin core.Vec3, sampler core.Sampler) (core.Vec3, int) {
	h := rt.config.HorizontalSamples
	v := rt.config.VerticalSamples

	colorAccum := core.Vec3{}
	hits := 0

	for n := 0; n < v; n++ {
		for m := 0; m < h; m++ {
			offset := sampler.Get2D()
			pixel := core.NewVec2(
				float64(i)+(float64(m)+offset.X)/float64(h),
				float64(j)+(float64(n)+offset.Y)/float64(v),
			)

			color, hit := rt.sampleColor(pixel, origin)
			colorAccum = colorAccum.Add(color)
			if hit {
				hits++
			}
		}
	}

	return colorAccum.Multiply(1.0 / float64(h*v)), hits
}

// sampleColor shoots one primary ray through a continuous pixel coordinate
func (rt *Raytracer) sampleColor(pixel core.Vec2, origin core.Vec3) (core.Vec3, bool) {
	s := rt.scene
	point := s.Camera.Project(rt.width, rt.height, pixel, origin)
	ray := s.Camera.GetRay(point)

	t := s.Sphere.Intersect(ray)
	if t <= 0 {
		return s.Background, false
	}

	normal := s.Sphere.Normal(ray.At(t))
	return s.Material.Shade(normal, s.LightDirection), true
}

// Render is a convenience wrapper that renders a scene in one call
func Render(ctx context.Context, s *scene.Scene, width, height int, config SamplingConfig) (*FrameBuffer, error) {
	rt := NewRaytracer(s, width, height)
	rt.SetSamplingConfig(config)
	return rt.Render(ctx)
}
