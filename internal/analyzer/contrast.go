package analyzer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// maxAnalysisSide bounds the raster the detectors work on. Layers are
// downsampled first and the blocks scaled back.
const maxAnalysisSide = 256

// ContrastDetector implements edge-based region detection using Sobel operator
type ContrastDetector struct {
	MinBlockArea  int     // Minimum area in analysis pixels²
	EdgeThreshold float64 // Gradient magnitude threshold
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		MinBlockArea:  200,
		EdgeThreshold: 30.0,
	}
}

// Detect finds regions of interest using edge detection and morphology
func (d *ContrastDetector) Detect(img image.Image) ([]Block, error) {
	small, scale := downsample(img)

	gray := luminance(small)
	edges := sobelEdgeDetection(gray, d.EdgeThreshold)
	dilated := dilate(edges, 5, 2)

	var blocks []Block
	for _, rect := range findContours(dilated) {
		if rect.Dx()*rect.Dy() >= d.MinBlockArea {
			blocks = append(blocks, Block{
				Rect:       upscale(rect, scale, img.Bounds()),
				Type:       "edge",
				Confidence: 0.7,
			})
		}
	}
	return blocks, nil
}

// AlphaDetector finds the opaque silhouettes of a layer. Foreground layers
// of a parallax stack are mostly transparent around their subject.
type AlphaDetector struct {
	MinBlockArea   int
	AlphaThreshold uint8
}

func NewAlphaDetector() *AlphaDetector {
	return &AlphaDetector{
		MinBlockArea:   200,
		AlphaThreshold: 128,
	}
}

func (d *AlphaDetector) Detect(img image.Image) ([]Block, error) {
	small, scale := downsample(img)
	b := small.Bounds()

	mask := image.NewGray(b)
	opaque := 0
	for i := 0; i < len(small.Pix)/4; i++ {
		if small.Pix[i*4+3] >= d.AlphaThreshold {
			mask.Pix[i] = 0xff
			opaque++
		}
	}
	// A fully opaque layer is a background; it has no subject.
	if opaque == b.Dx()*b.Dy() {
		return nil, nil
	}

	var blocks []Block
	for _, rect := range findContours(mask) {
		area := rect.Dx() * rect.Dy()
		if area < d.MinBlockArea {
			continue
		}
		blocks = append(blocks, Block{
			Rect:       upscale(rect, scale, img.Bounds()),
			Type:       "subject",
			Confidence: math.Min(1, 0.5+float64(area)/float64(2*b.Dx()*b.Dy())),
		})
	}
	return blocks, nil
}

// downsample returns img as RGBA no larger than maxAnalysisSide per side,
// and the factor from analysis to source pixels.
func downsample(img image.Image) (*image.RGBA, float64) {
	b := img.Bounds()
	scale := 1.0
	if side := max(b.Dx(), b.Dy()); side > maxAnalysisSide {
		scale = float64(side) / maxAnalysisSide
	}
	w := max(1, int(float64(b.Dx())/scale))
	h := max(1, int(float64(b.Dy())/scale))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if scale == 1 {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return dst, scale
}

func upscale(r image.Rectangle, scale float64, src image.Rectangle) image.Rectangle {
	out := image.Rect(
		int(float64(r.Min.X)*scale), int(float64(r.Min.Y)*scale),
		int(math.Ceil(float64(r.Max.X)*scale)), int(math.Ceil(float64(r.Max.Y)*scale)),
	)
	return out.Add(src.Min).Intersect(src)
}

// luminance converts premultiplied RGBA to grayscale over black.
func luminance(img *image.RGBA) *image.Gray {
	gray := image.NewGray(img.Bounds())
	for i := range gray.Pix {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		y := (19595*uint32(p[0]) + 38470*uint32(p[1]) + 7471*uint32(p[2]) + 1<<15) >> 16
		gray.Pix[i] = uint8(y)
	}
	return gray
}

// sobelEdgeDetection applies Sobel operator to detect edges
func sobelEdgeDetection(gray *image.Gray, threshold float64) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	edges := image.NewGray(b)
	px := func(x, y int) float64 { return float64(gray.Pix[y*gray.Stride+x]) }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			sumX := -px(x-1, y-1) + px(x+1, y-1) -
				2*px(x-1, y) + 2*px(x+1, y) -
				px(x-1, y+1) + px(x+1, y+1)
			sumY := -px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1) +
				px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1)

			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				edges.Pix[y*edges.Stride+x] = 0xff
			}
		}
	}
	return edges
}

// dilate performs morphological dilation to connect nearby edges
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	half := kernelSize / 2

	result := image.NewGray(b)
	copy(result.Pix, img.Pix)

	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(b)
		for y := half; y < h-half; y++ {
			for x := half; x < w-half; x++ {
				var maxVal uint8
				for ky := -half; ky <= half && maxVal < 0xff; ky++ {
					row := result.Pix[(y+ky)*result.Stride:]
					for kx := -half; kx <= half; kx++ {
						if v := row[x+kx]; v > maxVal {
							maxVal = v
						}
					}
				}
				temp.Pix[y*temp.Stride+x] = maxVal
			}
		}
		result = temp
	}
	return result
}

// findContours finds bounding rectangles of connected white regions
func findContours(img *image.Gray) []image.Rectangle {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	visited := make([]bool, w*h)

	var contours []image.Rectangle
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x] > 128 && !visited[y*w+x] {
				contours = append(contours, floodFill(img, visited, x, y))
			}
		}
	}
	return contours
}

// floodFill performs flood fill and returns bounding rectangle
func floodFill(img *image.Gray, visited []bool, startX, startY int) image.Rectangle {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	minX, minY, maxX, maxY := startX, startY, startX, startY

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		if visited[y*w+x] || img.Pix[y*img.Stride+x] <= 128 {
			continue
		}
		visited[y*w+x] = true

		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
