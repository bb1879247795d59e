package viz

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
)

const (
	// dotSize is the side in image pixels of one braille dot.
	dotSize    = 4
	frameDelay = 2
	gifName    = "simulation.gif"
)

func (m *Model) captureFrame() {
	m.frames = append(m.frames, m.canvas.Image(dotSize))
}

// EncodeGIF writes frames as a looping animation.
func EncodeGIF(w io.Writer, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return fmt.Errorf("viz: no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelay)
	}
	return gif.EncodeAll(w, &anim)
}

func saveGIF(path string, frames []*image.Paletted) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeGIF(f, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
