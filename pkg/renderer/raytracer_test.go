package renderer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HenrYxZ/experiments/pkg/camera"
	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/pkg/geometry"
	"github.com/HenrYxZ/experiments/pkg/material"
	"github.com/HenrYxZ/experiments/pkg/scene"
)

var purple = core.NewVec3(128.0/255.0, 0, 128.0/255.0)

// createTestScene builds a square-sensor scene: camera at z=-2 looking at a
// sphere at the origin through a 2x2 sensor two units ahead
func createTestScene(radius float64, lightDir, background core.Vec3) *scene.Scene {
	cam := camera.NewCamera(core.NewVec3(0, 0, -2), 1.0, 1.0, 2.0)
	return scene.New(
		cam,
		geometry.NewSphere(core.NewVec3(0, 0, 0), radius),
		lightDir,
		material.NewFloorDiffuse(purple, material.DefaultFloorScale),
		background,
	)
}

func constantSamplers(x, y float64) SamplerFactory {
	return func(row int) core.Sampler { return core.NewConstantSampler(x, y) }
}

// captureLogger records every formatted message
type captureLogger struct {
	messages []string
}

func (c *captureLogger) Printf(format string, args ...interface{}) {
	c.messages = append(c.messages, fmt.Sprintf(format, args...))
}

func TestRender_FrontPoleHit(t *testing.T) {
	s := createTestScene(0.5, core.NewVec3(0, 1, 0), core.Vec3{})

	rt := NewRaytracer(s, 1, 1)
	rt.SetSamplerFactory(constantSamplers(0.5, 0.5))

	fb, err := rt.Render(context.Background())
	require.NoError(t, err)

	// The ray through the sensor center hits the front pole, whose normal
	// (0,0,-1) is perpendicular to the light, so only the floor remains.
	// 0.2 * 128 = 25.6 rounds to 26.
	assert.Equal(t, [3]uint8{26, 0, 26}, fb.Pixel(0, 0))
	assert.Equal(t, 1, rt.Stats().HitSamples)
}

func TestRender_DefaultSceneCenterIsLit(t *testing.T) {
	s := scene.NewDefaultScene()

	rt := NewRaytracer(s, 1, 1)
	rt.SetSamplerFactory(constantSamplers(0.5, 0.5))

	fb, err := rt.Render(context.Background())
	require.NoError(t, err)

	// dot((0,0,-1), normalize(-0.3,1,-0.5)) * 128 = 55.29
	assert.Equal(t, [3]uint8{55, 0, 55}, fb.Pixel(0, 0))
}

func TestRender_BackgroundOnMiss(t *testing.T) {
	background := core.NewVec3(0.2, 0.4, 0.6)
	s := createTestScene(0.01, core.NewVec3(0, 1, 0), background)

	rt := NewRaytracer(s, 1, 1)
	// Aim at the upper-left part of the sensor, far from the tiny sphere
	rt.SetSamplerFactory(constantSamplers(0.1, 0.1))

	fb, err := rt.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, vec3ToRGB(background), fb.Pixel(0, 0))
	assert.Equal(t, [3]uint8{51, 102, 153}, fb.Pixel(0, 0))
	assert.Equal(t, 0, rt.Stats().HitSamples)
}

func TestRender_BufferShape(t *testing.T) {
	sizes := []struct{ width, height int }{
		{1, 1}, {3, 2}, {2, 3}, {17, 5}, {64, 48},
	}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("%dx%d", size.width, size.height), func(t *testing.T) {
			fb, err := Render(context.Background(), scene.NewDefaultScene(), size.width, size.height, DefaultSamplingConfig())
			require.NoError(t, err)

			assert.Equal(t, size.width, fb.Width)
			assert.Equal(t, size.height, fb.Height)
			assert.Len(t, fb.Pix, size.width*size.height*BytesPerPixel)
			assert.Equal(t, size.width, fb.Bounds().Dx())
			assert.Equal(t, size.height, fb.Bounds().Dy())
			for j := 0; j < size.height; j++ {
				assert.Len(t, fb.Row(j), size.width*BytesPerPixel)
			}
		})
	}
}

func TestRender_InvalidConfig(t *testing.T) {
	valid := scene.NewDefaultScene()
	badRadius := scene.NewDefaultScene()
	badRadius.Sphere.Radius = 0
	badSensor := scene.NewDefaultScene()
	badSensor.Camera.SensorHalfWidth = -1

	tests := []struct {
		name          string
		scene         *scene.Scene
		width, height int
		h, v          int
	}{
		{"zero width", valid, 0, 10, 1, 1},
		{"negative height", valid, 10, -1, 1, 1},
		{"zero horizontal samples", valid, 10, 10, 0, 1},
		{"zero vertical samples", valid, 10, 10, 1, 0},
		{"zero radius", badRadius, 10, 10, 1, 1},
		{"negative sensor", badSensor, 10, 10, 1, 1},
		{"nil scene", nil, 10, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultSamplingConfig()
			config.HorizontalSamples = tt.h
			config.VerticalSamples = tt.v

			fb, err := Render(context.Background(), tt.scene, tt.width, tt.height, config)
			assert.Nil(t, fb)
			assert.True(t, errors.Is(err, scene.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestRender_SameSeedSameImage(t *testing.T) {
	s := scene.NewDefaultScene()
	config := SamplingConfig{HorizontalSamples: 2, VerticalSamples: 2, Seed: 7}

	var images [][]uint8
	for _, workers := range []int{1, 3, 8} {
		config.NumWorkers = workers
		fb, err := Render(context.Background(), s, 40, 30, config)
		require.NoError(t, err)
		images = append(images, fb.Pix)
	}

	assert.Equal(t, images[0], images[1])
	assert.Equal(t, images[0], images[2])
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fb, err := Render(ctx, scene.NewDefaultScene(), 40, 30, DefaultSamplingConfig())
	assert.Nil(t, fb)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRender_Stats(t *testing.T) {
	logger := &captureLogger{}
	rt := NewRaytracer(scene.NewDefaultScene(), 28, 21)
	rt.SetSamplingConfig(SamplingConfig{HorizontalSamples: 3, VerticalSamples: 2, Seed: 1, NumWorkers: 2})
	rt.SetLogger(logger)

	_, err := rt.Render(context.Background())
	require.NoError(t, err)

	stats := rt.Stats()
	assert.Equal(t, 28*21, stats.TotalPixels)
	assert.Equal(t, 28*21*6, stats.TotalSamples)
	assert.Equal(t, 2, stats.NumWorkers)
	// The sphere covers a sizeable part of the default view but not all of it
	assert.Greater(t, stats.HitRatio(), 0.05)
	assert.Less(t, stats.HitRatio(), 0.5)

	require.Len(t, logger.messages, 2)
	assert.Contains(t, logger.messages[0], "Rendering 28x21 with 3x2 samples per pixel")
	assert.Contains(t, logger.messages[1], "Render completed")
}

func TestRender_AllBackgroundWhenSphereOutOfView(t *testing.T) {
	s := scene.NewDefaultScene()
	s.Sphere.Center = core.NewVec3(0, 0, -10) // Behind the camera

	fb, err := Render(context.Background(), s, 16, 12, DefaultSamplingConfig())
	require.NoError(t, err)

	for _, b := range fb.Pix {
		assert.Equal(t, uint8(0), b)
	}
}

// variance returns the population variance of values
func variance(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}

func TestTracePixel_MoreSamplesReduceVariance(t *testing.T) {
	// With radius 0.6 the silhouette crosses the image plane at r ~ 0.63, which
	// cuts through pixel (6, 4) of an 8x8 image (x in [0.5, 0.75], y in [-0.25, 0])
	s := createTestScene(0.6, core.NewVec3(-0.3, 1.0, -0.5), core.Vec3{})
	const width, height = 8, 8
	const trials = 200

	pixelVariance := func(h, v int) float64 {
		rt := NewRaytracer(s, width, height)
		rt.SetSamplingConfig(SamplingConfig{HorizontalSamples: h, VerticalSamples: v})
		origin := s.Camera.ImagePlaneOrigin()

		reds := make([]float64, trials)
		for seed := 0; seed < trials; seed++ {
			color, _ := rt.tracePixel(6, 4, origin, core.NewSeededSampler(int64(seed)))
			reds[seed] = color.X
		}
		return variance(reds)
	}

	coarse := pixelVariance(1, 1)
	fine := pixelVariance(3, 3)

	require.Greater(t, coarse, 0.0, "pixel should straddle the silhouette")
	assert.Less(t, fine, coarse/2)
}

func TestTracePixel_AveragesSubSamples(t *testing.T) {
	// A 2x1 grid with a constant 0.5 offset samples x = 0.25 and x = 0.75 of
	// a 1x1 image: both miss a tiny sphere, so the average is the background
	background := core.NewVec3(0.25, 0.5, 1.0)
	s := createTestScene(0.01, core.NewVec3(0, 1, 0), background)

	rt := NewRaytracer(s, 1, 1)
	rt.SetSamplingConfig(SamplingConfig{HorizontalSamples: 2, VerticalSamples: 1})

	color, hits := rt.tracePixel(0, 0, s.Camera.ImagePlaneOrigin(), core.NewConstantSampler(0.5, 0.5))
	assert.Equal(t, 0, hits)
	assert.InDelta(t, background.X, color.X, 1e-12)
	assert.InDelta(t, background.Y, color.Y, 1e-12)
	assert.InDelta(t, background.Z, color.Z, 1e-12)
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected uint8
	}{
		{"black", 0, 0},
		{"white", 1, 255},
		{"half rounds up", 0.5, 128},
		{"floor of purple", 0.2 * 128.0 / 255.0, 26},
		{"rounds instead of truncating", 0.999, 255},
		{"just below half step", 0.4 / 255.0, 0},
		{"just above half step", 0.6 / 255.0, 1},
		{"negative clamps to zero", -0.25, 0},
		{"overflow clamps to max", 1.7, 255},
		{"huge clamps to max", math.Inf(1), 255},
		{"NaN maps to zero", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rgb := vec3ToRGB(core.NewVec3(tt.input, tt.input, tt.input))
			assert.Equal(t, [3]uint8{tt.expected, tt.expected, tt.expected}, rgb)
		})
	}
}
