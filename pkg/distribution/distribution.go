// Package distribution compares strategies for drawing random points inside a
// disc and plots them side by side. It is a companion tool for checking sample
// patterns, not part of the renderer.
package distribution

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Strategy draws up to n integer points inside a disc of radius maxRadius
// centered in a frameSize x frameSize frame
type Strategy func(random *rand.Rand, n, maxRadius, frameSize int) []image.Point

// Experiment is a named set of points produced by one strategy
type Experiment struct {
	Name   string
	Points []image.Point
}

// Run produces an experiment from a strategy
func Run(name string, strategy Strategy, random *rand.Rand, n, maxRadius, frameSize int) Experiment {
	return Experiment{Name: name, Points: strategy(random, n, maxRadius, frameSize)}
}

// Label returns the caption drawn under the experiment's panel
func (e Experiment) Label() string {
	return e.Name + " [n = " + strconv.Itoa(len(e.Points)) + "]"
}

// UniformRadius picks r uniformly in [0, maxRadius); points cluster near the center
func UniformRadius(random *rand.Rand, n, maxRadius, frameSize int) []image.Point {
	return polar(random, n, maxRadius, frameSize, func(u float64) float64 { return u })
}

// SqrtRadius picks r = sqrt(u) * maxRadius, which is uniform over the disc area
func SqrtRadius(random *rand.Rand, n, maxRadius, frameSize int) []image.Point {
	return polar(random, n, maxRadius, frameSize, math.Sqrt)
}

func polar(random *rand.Rand, n, maxRadius, frameSize int, radial func(float64) float64) []image.Point {
	half := float64(frameSize / 2)
	points := make([]image.Point, n)
	for i := range points {
		r := radial(random.Float64()) * float64(maxRadius)
		theta := random.Float64() * 2 * math.Pi
		points[i] = image.Pt(
			int(math.Floor(r*math.Cos(theta)+half)),
			int(math.Floor(r*math.Sin(theta)+half)),
		)
	}
	return points
}

// BoxReject draws n points in the bounding square and keeps those inside the
// disc, so it usually returns fewer than n points
func BoxReject(random *rand.Rand, n, maxRadius, frameSize int) []image.Point {
	r := float64(maxRadius)
	shift := frameSize/2 - maxRadius
	points := make([]image.Point, 0, n)
	for i := 0; i < n; i++ {
		x := random.Float64() * 2 * r
		y := random.Float64() * 2 * r
		if inDisc(x, y, r) {
			points = append(points, image.Pt(int(math.Floor(x))+shift, int(math.Floor(y))+shift))
		}
	}
	return points
}

// BoxRepeat redraws every rejected point until it lands inside the disc, so
// it always returns exactly n points
func BoxRepeat(random *rand.Rand, n, maxRadius, frameSize int) []image.Point {
	r := float64(maxRadius)
	shift := frameSize/2 - maxRadius
	points := make([]image.Point, n)
	for i := range points {
		x := random.Float64() * 2 * r
		y := random.Float64() * 2 * r
		for !inDisc(x, y, r) {
			x = random.Float64() * 2 * r
			y = random.Float64() * 2 * r
		}
		points[i] = image.Pt(int(math.Floor(x))+shift, int(math.Floor(y))+shift)
	}
	return points
}

func inDisc(x, y, r float64) bool {
	return (x-r)*(x-r)+(y-r)*(y-r) <= r*r
}

// Columns is the number of panels per row in a plot
const Columns = 2

// PlotSize returns the pixel size of a plot holding count experiments
func PlotSize(count, frameSize, padding int) (int, int) {
	cell := frameSize + 2*padding
	rows := (count + Columns - 1) / Columns
	return Columns * cell, rows * cell
}

// Plot draws each experiment in its own panel: white points on black with the
// label centered in the bottom padding. Point y grows upward inside a panel.
func Plot(experiments []Experiment, frameSize, padding int) *image.RGBA {
	width, height := PlotSize(len(experiments), frameSize, padding)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	cell := frameSize + 2*padding
	for i, e := range experiments {
		panel := image.Pt((i%Columns)*cell, (i/Columns)*cell)

		for _, p := range e.Points {
			if p.X < 0 || p.Y < 0 || p.X >= frameSize || p.Y >= frameSize {
				continue
			}
			img.Set(panel.X+padding+p.X, panel.Y+padding+frameSize-1-p.Y, color.White)
		}

		drawLabel(img, e.Label(), panel.X+padding+frameSize/2, panel.Y+cell-padding/2)
	}
	return img
}

// drawLabel writes text centered on x with its baseline at y
func drawLabel(img *image.RGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	textWidth := d.MeasureString(text).Ceil()
	d.Dot = fixed.P(x-textWidth/2, y)
	d.DrawString(text)
}
