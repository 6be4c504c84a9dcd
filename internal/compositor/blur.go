package compositor

import (
	"image"
	"math"
	"sync"

	"golang.org/x/image/vector"
)

// maxShadowPatches bounds the per-canvas patch cache. A canvas normally
// needs two: one per focus state.
const maxShadowPatches = 8

var kernels sync.Map // float64 sigma -> []float32

// gaussianKernel returns a normalized 1D kernel of size 2*ceil(3*sigma)+1.
func gaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	if k, ok := kernels.Load(sigma); ok {
		return k.([]float32)
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, half*2+1)
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}

	kernels.Store(sigma, kernel)
	return kernel
}

// blurAlpha runs a separable gaussian over a w*h coverage buffer in place,
// using tmp as scratch. Samples outside the buffer count as transparent.
func blurAlpha(buf, tmp []float32, w, h int, sigma float64) {
	kernel := gaussianKernel(sigma)
	if len(kernel) == 1 {
		return
	}
	half := len(kernel) / 2

	for y := 0; y < h; y++ {
		row := buf[y*w : (y+1)*w]
		out := tmp[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var a float32
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= w {
					continue
				}
				a += row[kx] * weight
			}
			out[x] = a
		}
	}

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var a float32
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= h {
					continue
				}
				a += tmp[ky*w+x] * weight
			}
			buf[y*w+x] = a
		}
	}
}

// shadowKey identifies a blurred rectangle. Blurring a rectangle gives the
// same coverage wherever it sits, so one patch serves every pan position.
type shadowKey struct {
	w, h, sigma float64
}

// shadowPatch is the blurred coverage of a rectangle inset by pad pixels
// into a w*h patch.
type shadowPatch struct {
	pad   int
	w, h  int
	alpha []uint8
}

func newShadowPatch(k shadowKey) *shadowPatch {
	pad := len(gaussianKernel(k.sigma))/2 + 1
	w := int(math.Ceil(k.w)) + 2*pad
	h := int(math.Ceil(k.h)) + 2*pad

	x0, y0 := float32(pad), float32(pad)
	x1, y1 := x0+float32(k.w), y0+float32(k.h)
	var z vector.Rasterizer
	z.Reset(w, h)
	z.MoveTo(x0, y0)
	z.LineTo(x1, y0)
	z.LineTo(x1, y1)
	z.LineTo(x0, y1)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	buf := make([]float32, w*h)
	for i, a := range mask.Pix {
		buf[i] = float32(a)
	}
	blurAlpha(buf, make([]float32, w*h), w, h, k.sigma)

	for i, a := range buf {
		switch {
		case a <= 0:
			mask.Pix[i] = 0
		case a >= 0xff:
			mask.Pix[i] = 0xff
		default:
			mask.Pix[i] = uint8(a + 0.5)
		}
	}
	return &shadowPatch{pad: pad, w: w, h: h, alpha: mask.Pix}
}

// at returns the coverage at patch coordinates, zero outside.
func (p *shadowPatch) at(x, y int) uint8 {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return 0
	}
	return p.alpha[y*p.w+x]
}
