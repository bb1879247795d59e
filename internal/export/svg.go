package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/render"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
)

var ErrNoSamples = errors.New("export: no samples")

// bodyColors cycles over bodies in trajectory plots.
var bodyColors = []string{"#00ffff", "#ff00ff", "#ffff00", "#00ff00", "#ff8800", "#0088ff"}

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// CanvasToSVG converts a braille canvas to SVG, one circle per set dot.
// scale is the size in SVG units of one sub-pixel.
func CanvasToSVG(canvas *render.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	w, h := canvas.Width*2, canvas.Height*4
	width, height := int(float64(w)*scale), int(float64(h)*scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoriesToSVG draws one path per body through the sampled positions,
// mapped to the viewport around the center of gravity of each sample, and
// the bodies themselves at their last sampled position.
func TrajectoriesToSVG(samples []sim.Sample, masses []float64, v render.Viewport) (string, error) {
	if len(samples) == 0 {
		return "", ErrNoSamples
	}

	paths := make([][]render.Pixel, len(masses))
	for _, s := range samples {
		pixels, err := render.ScaleToScreen(universe.Snapshot{Positions: s.Positions, Masses: masses}, v)
		if err != nil {
			return "", fmt.Errorf("sample at t=%g: %w", s.Time, err)
		}
		for i, p := range pixels {
			paths[i] = append(paths[i], p)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, v.Width, v.Height, v.Width, v.Height)

	for i, path := range paths {
		color := bodyColors[i%len(bodyColors)]
		if len(path) > 1 {
			fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1\" d=\"M", color)
			for j, p := range path {
				if j == 0 {
					fmt.Fprintf(&sb, "%d,%d", p.X, p.Y)
				} else {
					fmt.Fprintf(&sb, " L%d,%d", p.X, p.Y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		last := path[len(path)-1]
		r := last.R
		if r < 1 {
			r = 1
		}
		fmt.Fprintf(&sb, "<circle cx=\"%d\" cy=\"%d\" r=\"%d\" fill=\"%s\"/>\n", last.X, last.Y, r, color)
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}
