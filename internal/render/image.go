package render

import (
	"image"
	"image/color"
)

// Palette is the two-color palette used by Image: background then ink.
var Palette = color.Palette{color.Black, color.White}

// Image rasterizes the canvas with every sub-pixel dot drawn as a dot×dot
// square.
func (c *Canvas) Image(dot int) *image.Paletted {
	if dot < 1 {
		dot = 1
	}
	w, h := c.Width*2, c.Height*4
	img := image.NewPaletted(image.Rect(0, 0, w*dot, h*dot), Palette)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dot; py++ {
				for px := 0; px < dot; px++ {
					img.SetColorIndex(x*dot+px, y*dot+py, 1)
				}
			}
		}
	}
	return img
}
