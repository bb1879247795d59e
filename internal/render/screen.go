// Package render maps universe snapshots onto integer screen coordinates and
// rasterizes them onto a terminal braille canvas.
package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/universe"
)

const (
	DefaultWidth     = 500
	DefaultHeight    = 500
	DefaultScale     = 2e9
	DefaultMaxRadius = 30
)

// ErrInvalidViewport indicates a viewport with no area or a non-positive scale.
var ErrInvalidViewport = errors.New("render: invalid viewport")

// Viewport places the center of gravity at the middle of a Width×Height
// screen; a world offset of ±XScale (±YScale) reaches the screen edge.
type Viewport struct {
	Width, Height  int
	XScale, YScale float64
	// MaxRadius is the radius in pixels of the heaviest body.
	MaxRadius int
}

func DefaultViewport() Viewport {
	return Viewport{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		XScale:    DefaultScale,
		YScale:    DefaultScale,
		MaxRadius: DefaultMaxRadius,
	}
}

func (v Viewport) Validate() error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, v.Width, v.Height)
	}
	if !(v.XScale > 0) || !(v.YScale > 0) || math.IsInf(v.XScale, 0) || math.IsInf(v.YScale, 0) {
		return fmt.Errorf("%w: scale %g x %g", ErrInvalidViewport, v.XScale, v.YScale)
	}
	if v.MaxRadius < 0 {
		return fmt.Errorf("%w: max radius %d", ErrInvalidViewport, v.MaxRadius)
	}
	return nil
}

// Pixel is a body's screen position and disc radius.
type Pixel struct {
	X, Y, R int
}

// ScaleToScreen projects every body of snap into v. Radii grow with the
// square root of |m| so that the heaviest body gets MaxRadius.
func ScaleToScreen(snap universe.Snapshot, v Viewport) ([]Pixel, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	center, err := gravity.CenterOf(snap.Positions, snap.Masses)
	if err != nil {
		return nil, err
	}

	maxMass := 0.0
	for _, m := range snap.Masses {
		maxMass = math.Max(maxMass, math.Abs(m))
	}

	out := make([]Pixel, snap.N())
	for i, p := range snap.Positions {
		out[i] = Pixel{
			X: int(((p.X-center.X)/v.XScale + 1) * float64(v.Width) / 2),
			Y: int(((p.Y-center.Y)/v.YScale + 1) * float64(v.Height) / 2),
		}
		if maxMass > 0 {
			out[i].R = int(float64(v.MaxRadius) * math.Sqrt(math.Abs(snap.Masses[i])/maxMass))
		}
	}
	return out, nil
}

// Disc returns the points strictly inside the circle of radius r around c.
func Disc(c image.Point, r int) []image.Point {
	if r <= 0 {
		return nil
	}
	r2 := r * r
	pts := make([]image.Point, 0, 4*r2)
	for x := -r + 1; x < r; x++ {
		for y := -r + 1; y < r; y++ {
			if x*x+y*y < r2 {
				pts = append(pts, image.Point{X: c.X + x, Y: c.Y + y})
			}
		}
	}
	return pts
}
