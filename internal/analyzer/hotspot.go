// Package analyzer finds regions of interest in the layers of an LSR image,
// in authored canvas coordinates.
package analyzer

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lsrview/internal/lsr"
)

// Hotspot is a detected region mapped onto the authored canvas.
type Hotspot struct {
	Rect       lsr.Rect
	Layer      int
	Type       string
	Confidence float64
}

// FindHotspots runs det over every layer concurrently. Hotspots are
// returned nearest layer first, then by confidence.
func FindHotspots(ctx context.Context, img *lsr.Image, det Detector) ([]Hotspot, error) {
	perLayer := make([][]Hotspot, len(img.Layers))

	g, ctx := errgroup.WithContext(ctx)
	for i := range img.Layers {
		i := i
		layer := &img.Layers[i]
		if layer.Image == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			blocks, err := det.Detect(layer.Image)
			if err != nil {
				return err
			}
			for _, b := range blocks {
				perLayer[i] = append(perLayer[i], Hotspot{
					Rect:       toCanvas(img, layer, b),
					Layer:      i,
					Type:       b.Type,
					Confidence: b.Confidence,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Hotspot
	for _, hs := range perLayer {
		sort.SliceStable(hs, func(a, b int) bool { return hs[a].Confidence > hs[b].Confidence })
		out = append(out, hs...)
	}
	return out, nil
}

// toCanvas maps a block from layer pixels to the authored canvas.
func toCanvas(img *lsr.Image, layer *lsr.Layer, b Block) lsr.Rect {
	src := layer.Image.Bounds()
	sx := layer.FrameSize.Width / float64(src.Dx())
	sy := layer.FrameSize.Height / float64(src.Dy())

	anchor := img.CanvasCentre()
	if layer.FrameCenter != nil {
		anchor = *layer.FrameCenter
	}
	left := anchor.X - layer.FrameSize.Width*0.5
	top := anchor.Y - layer.FrameSize.Height*0.5

	return lsr.Rect{
		X:      left + float64(b.Rect.Min.X-src.Min.X)*sx,
		Y:      top + float64(b.Rect.Min.Y-src.Min.Y)*sy,
		Width:  float64(b.Rect.Dx()) * sx,
		Height: float64(b.Rect.Dy()) * sy,
	}
}
