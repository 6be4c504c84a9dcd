package video

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/ivlev/lsrview/internal/config"
)

// fit draws src into dst keeping its aspect ratio, centred and padded with
// the background color.
func fit(dst, src *image.RGBA, background string) {
	sb := src.Rect
	db := dst.Rect
	if sb.Size() == db.Size() {
		draw.Copy(dst, db.Min, src, sb, draw.Src, nil)
		return
	}

	bg, err := config.ParseColor(background)
	if err != nil {
		bg = color.RGBA{A: 255}
	}
	draw.Draw(dst, db, image.NewUniform(bg), image.Point{}, draw.Src)

	scale := min(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	w := int(float64(sb.Dx())*scale + 0.5)
	h := int(float64(sb.Dy())*scale + 0.5)
	x := db.Min.X + (db.Dx()-w)/2
	y := db.Min.Y + (db.Dy()-h)/2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), src, sb, draw.Over, nil)
}
