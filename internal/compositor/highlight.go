package compositor

import (
	"image"
	"math"
	"sync"
)

const highlightSize = 256

var (
	highlightOnce sync.Once
	highlightImg  *image.RGBA
)

// DefaultHighlight returns the built-in sheen: a soft white radial gradient
// fading to transparent at its edge. The image is shared and must not be
// modified.
func DefaultHighlight() image.Image {
	highlightOnce.Do(func() {
		highlightImg = radialSheen(highlightSize, 0.4)
	})
	return highlightImg
}

func radialSheen(size int, peak float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - c) / c
			dy := (float64(y) + 0.5 - c) / c
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= 1 {
				continue
			}
			fall := 1 - d
			a := uint8(peak*fall*fall*0xff + 0.5)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = a
			img.Pix[i+1] = a
			img.Pix[i+2] = a
			img.Pix[i+3] = a
		}
	}
	return img
}
