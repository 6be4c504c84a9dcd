package lsr

import (
	"image"
	"image/color"
)

func solid(c color.RGBA) image.Image {
	return image.NewUniform(c)
}
