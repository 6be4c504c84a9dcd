// Package compositor lays out and draws the layers of an LSR image with
// depth-based parallax offsets.
package compositor

import (
	"image"
	"math"

	"github.com/ivlev/lsrview/internal/lsr"
)

// Tuning constants. They are empirical and kept as-is for visual parity.
const (
	ShadowPadding  = 50.0 // room around the image for shadow blur and focus zoom
	FocusedPadding = 35.0 // unfocused images shrink by twice this on their long side

	focusZoom       = 1.06
	layerScaleRange = 0.06
	spreadFactor    = 0.03
	panDepthFactor  = 0.003
	basePanX        = 15.0
	basePanY        = 10.0
	cornerRadius    = 10.0
	shadowIndent    = 10.0
	highlightLift   = 0.6
)

// Metrics are the layout values derived from the authored canvas size.
// They change only when Layout runs again.
type Metrics struct {
	ResizeRatio     float64
	CanvasSize      lsr.Size // authored size plus shadow padding
	PixelSize       image.Point
	CanvasCentre    lsr.Point
	FocusedSize     lsr.Size
	UnfocusedSize   lsr.Size
	FocusedScale    float64
	UnfocusedScale  float64
	FocusedOffset   lsr.Point
	UnfocusedOffset lsr.Point
}

// Layout computes the metrics of img. When responsive, the canvas is scaled
// down so the authored size fits container; the ratio never goes below 1.
func Layout(img *lsr.Image, container lsr.Size, responsive bool) Metrics {
	authored := img.CanvasSize
	ratio := 1.0
	if responsive && !container.Empty() {
		ratio = math.Max(authored.Width/container.Width, authored.Height/container.Height)
		if ratio < 1 {
			ratio = 1
		}
	}

	m := Metrics{
		ResizeRatio: ratio,
		CanvasSize: lsr.Size{
			Width:  authored.Width + ShadowPadding*2*ratio,
			Height: authored.Height + ShadowPadding*2*ratio,
		},
		CanvasCentre: img.CanvasCentre(),
	}
	m.PixelSize = image.Pt(int(m.CanvasSize.Width/ratio), int(m.CanvasSize.Height/ratio))

	reduction := FocusedPadding * 2
	aspect := authored.Width / authored.Height
	if authored.Width > authored.Height {
		m.FocusedSize.Width = authored.Width / focusZoom
		m.UnfocusedSize.Width = m.FocusedSize.Width - reduction
		m.FocusedSize.Height = m.FocusedSize.Width / aspect
		m.UnfocusedSize.Height = m.UnfocusedSize.Width / aspect
		m.FocusedScale = m.FocusedSize.Width / authored.Width
		m.UnfocusedScale = m.UnfocusedSize.Width / authored.Width
	} else {
		m.FocusedSize.Height = authored.Height / focusZoom
		m.UnfocusedSize.Height = m.FocusedSize.Height - reduction
		m.FocusedSize.Width = m.FocusedSize.Height * aspect
		m.UnfocusedSize.Width = m.UnfocusedSize.Height * aspect
		m.FocusedScale = m.FocusedSize.Height / authored.Height
		m.UnfocusedScale = m.UnfocusedSize.Height / authored.Height
	}

	m.FocusedOffset = lsr.Point{
		X: (m.CanvasSize.Width - m.FocusedSize.Width) * 0.5,
		Y: (m.CanvasSize.Height - m.FocusedSize.Height) * 0.5,
	}
	m.UnfocusedOffset = lsr.Point{
		X: (m.CanvasSize.Width - m.UnfocusedSize.Width) * 0.5,
		Y: (m.CanvasSize.Height - m.UnfocusedSize.Height) * 0.5,
	}
	return m
}
