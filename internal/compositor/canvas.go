package compositor

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/ivlev/lsrview/internal/lsr"
)

// Canvas owns the raster surfaces of one displayed image. The main surface
// receives the layers; the shadow surface is composited behind it.
type Canvas struct {
	metrics Metrics
	frame   Frame

	main   *image.RGBA
	shadow *image.RGBA
	mask   *image.Alpha
	rast   vector.Rasterizer

	shadows map[shadowKey]*shadowPatch
	scaled  map[scaledKey]*image.RGBA

	highlight image.Image
}

// NewCanvas allocates surfaces for the given layout.
func NewCanvas(m Metrics) *Canvas {
	c := &Canvas{highlight: DefaultHighlight()}
	c.Resize(m)
	return c
}

// Resize reallocates the surfaces when the pixel size changed.
func (c *Canvas) Resize(m Metrics) {
	if c.metrics != m {
		c.shadows = nil
		c.scaled = nil
	}
	c.metrics = m
	bounds := image.Rectangle{Max: m.PixelSize}
	if c.main != nil && c.main.Bounds() == bounds {
		return
	}
	c.main = image.NewRGBA(bounds)
	c.shadow = image.NewRGBA(bounds)
	c.mask = image.NewAlpha(bounds)
}

// Metrics returns the layout the canvas was last sized for.
func (c *Canvas) Metrics() Metrics { return c.metrics }

// SetHighlight replaces the sheen overlay. A nil image disables it.
func (c *Canvas) SetHighlight(img image.Image) { c.highlight = img }

// Frame returns the geometry of the last draw.
func (c *Canvas) Frame() *Frame { return &c.frame }

// Image returns the main surface. It is overwritten by the next Draw.
func (c *Canvas) Image() *image.RGBA { return c.main }

// Snapshot copies the main surface into dst, allocating it when nil or
// differently sized.
func (c *Canvas) Snapshot(dst *image.RGBA) *image.RGBA {
	if dst == nil || dst.Bounds() != c.main.Bounds() {
		dst = image.NewRGBA(c.main.Bounds())
	}
	copy(dst.Pix, c.main.Pix)
	return dst
}

// Draw renders img with the pan vector (panX, panY). It panics when the
// canvas was never laid out.
func (c *Canvas) Draw(img *lsr.Image, s State, panX, panY float64) {
	Plan(img, &c.metrics, s, panX, panY, &c.frame)
	f := &c.frame

	clear(c.main.Pix)

	// Everything outside the base rectangle is clipped away below.
	clip := c.main.SubImage(pixelBounds(f.BaseRect)).(*image.RGBA)
	for _, p := range f.Layers {
		if src := img.Layers[p.Layer].Image; src != nil {
			c.drawScaled(clip, src, p.Rect)
		}
	}

	if f.Highlight && c.highlight != nil {
		c.drawScaled(clip, c.highlight, f.HighlightRect)
	}

	c.fillMask(f.BaseRect, f.Rounded)
	destinationIn(c.main, c.mask)

	if f.Shadows {
		clear(c.shadow.Pix)
		c.drawShadow(&f.Shadow)
		destinationOver(c.main, c.shadow)
	}
}

// pixelBounds returns the smallest pixel rectangle covering r.
func pixelBounds(r lsr.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
	)
}

// maxScaled bounds the resampled raster cache: every layer and the
// highlight in both focus states.
const maxScaled = 32

type scaledKey struct {
	src  image.Image
	w, h int
}

// drawScaled draws src stretched into r. Sizes only change with focus and
// layout, so the resampled raster is cached and each frame just places it
// at the nearest whole pixel. Only the bounds of dst are written.
func (c *Canvas) drawScaled(dst *image.RGBA, src image.Image, r lsr.Rect) {
	w, h := int(math.Round(r.Width)), int(math.Round(r.Height))
	if src.Bounds().Empty() || w <= 0 || h <= 0 || dst.Rect.Empty() {
		return
	}
	x, y := int(math.Round(r.X)), int(math.Round(r.Y))
	draw.Draw(dst, image.Rect(x, y, x+w, y+h), c.resampled(src, w, h), image.Point{}, draw.Over)
}

// resampled returns src scaled to w*h.
func (c *Canvas) resampled(src image.Image, w, h int) *image.RGBA {
	k := scaledKey{src: src, w: w, h: h}
	if img, ok := c.scaled[k]; ok {
		return img
	}
	if c.scaled == nil || len(c.scaled) >= maxScaled {
		c.scaled = make(map[scaledKey]*image.RGBA)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(img, img.Rect, src, src.Bounds(), draw.Src, nil)
	c.scaled[k] = img
	return img
}

// fillMask rasterizes r into c.mask, replacing its contents.
func (c *Canvas) fillMask(r lsr.Rect, rounded bool) {
	size := c.mask.Bounds().Size()
	z := &c.rast
	z.Reset(size.X, size.Y)
	z.DrawOp = draw.Src

	w, h := float32(size.X), float32(size.Y)
	pt := func(x, y float32) (float32, float32) {
		return clampf(x, 0, w), clampf(y, 0, h)
	}

	x0, y0 := float32(r.X), float32(r.Y)
	x1, y1 := float32(r.X+r.Width), float32(r.Y+r.Height)
	if rounded {
		rad := float32(cornerRadius)
		z.MoveTo(pt(x0+rad, y0))
		z.LineTo(pt(x1-rad, y0))
		quadTo(z, pt, x1, y0, x1, y0+rad)
		z.LineTo(pt(x1, y1-rad))
		quadTo(z, pt, x1, y1, x1-rad, y1)
		z.LineTo(pt(x0+rad, y1))
		quadTo(z, pt, x0, y1, x0, y1-rad)
		z.LineTo(pt(x0, y0+rad))
		quadTo(z, pt, x0, y0, x0+rad, y0)
	} else {
		z.MoveTo(pt(x0, y0))
		z.LineTo(pt(x1, y0))
		z.LineTo(pt(x1, y1))
		z.LineTo(pt(x0, y1))
	}
	z.ClosePath()

	clear(c.mask.Pix)
	z.Draw(c.mask, c.mask.Bounds(), image.Opaque, image.Point{})
}

func quadTo(z *vector.Rasterizer, pt func(x, y float32) (float32, float32), bx, by, cx, cy float32) {
	bx, by = pt(bx, by)
	cx, cy = pt(cx, cy)
	z.QuadTo(bx, by, cx, cy)
}

// drawShadow paints the blurred, offset shadow and then knocks out the
// shape casting it. The blurred coverage comes from a cached patch placed at
// the whole-pixel origin of the cast rectangle.
func (c *Canvas) drawShadow(sh *Shadow) {
	cast := sh.Rect
	cast.Y += sh.OffsetY
	if cast.Width <= 0 || cast.Height <= 0 {
		return
	}

	key := shadowKey{w: cast.Width, h: cast.Height, sigma: sh.Blur * 0.5}
	p, ok := c.shadows[key]
	if !ok {
		if c.shadows == nil || len(c.shadows) >= maxShadowPatches {
			c.shadows = make(map[shadowKey]*shadowPatch)
		}
		p = newShadowPatch(key)
		c.shadows[key] = p
	}

	ox := int(math.Round(cast.X)) - p.pad
	oy := int(math.Round(cast.Y)) - p.pad
	area := image.Rect(ox, oy, ox+p.w, oy+p.h).Intersect(c.shadow.Rect)
	shade := uint32(sh.Color.Y)
	pix := c.shadow.Pix
	for y := area.Min.Y; y < area.Max.Y; y++ {
		src := p.alpha[(y-oy)*p.w+(area.Min.X-ox):]
		row := pix[c.shadow.PixOffset(area.Min.X, y):]
		for x := 0; x < area.Dx(); x++ {
			a := src[x]
			if a == 0 {
				continue
			}
			v := uint8(uint32(a) * shade / 0xff)
			row[x*4+0] = v
			row[x*4+1] = v
			row[x*4+2] = v
			row[x*4+3] = a
		}
	}

	c.fillMask(sh.Rect, false)
	for i, m := range c.mask.Pix {
		if m == 0 {
			continue
		}
		inv := uint32(0xff - m)
		px := pix[i*4 : i*4+4 : i*4+4]
		px[0] = uint8(uint32(px[0]) * inv / 0xff)
		px[1] = uint8(uint32(px[1]) * inv / 0xff)
		px[2] = uint8(uint32(px[2]) * inv / 0xff)
		px[3] = uint8(uint32(m) + uint32(px[3])*inv/0xff)
	}
}

// destinationIn keeps dst only where mask is set.
func destinationIn(dst *image.RGBA, mask *image.Alpha) {
	pix := dst.Pix
	for i, m := range mask.Pix {
		switch m {
		case 0xff:
			continue
		case 0:
			pix[i*4+0], pix[i*4+1], pix[i*4+2], pix[i*4+3] = 0, 0, 0, 0
		default:
			mm := uint32(m)
			p := pix[i*4 : i*4+4 : i*4+4]
			p[0] = uint8(uint32(p[0]) * mm / 0xff)
			p[1] = uint8(uint32(p[1]) * mm / 0xff)
			p[2] = uint8(uint32(p[2]) * mm / 0xff)
			p[3] = uint8(uint32(p[3]) * mm / 0xff)
		}
	}
}

// destinationOver composites src behind dst. Both are premultiplied.
func destinationOver(dst, src *image.RGBA) {
	d, s := dst.Pix, src.Pix
	for i := 0; i+3 < len(d); i += 4 {
		inv := uint32(0xff - d[i+3])
		if inv == 0 || s[i+3] == 0 {
			continue
		}
		d[i+0] += uint8(uint32(s[i+0]) * inv / 0xff)
		d[i+1] += uint8(uint32(s[i+1]) * inv / 0xff)
		d[i+2] += uint8(uint32(s[i+2]) * inv / 0xff)
		d[i+3] += uint8(uint32(s[i+3]) * inv / 0xff)
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
