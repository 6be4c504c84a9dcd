package compositor

import (
	"image/color"

	"github.com/ivlev/lsrview/internal/lsr"
)

// State is the focus-dependent render state of one image.
type State struct {
	Focused     bool
	ZoomEnabled bool
	Rounded     bool
	Shadows     bool
}

// engaged reports whether the zoomed-in geometry applies.
func (s State) engaged() bool {
	return s.Focused || !s.ZoomEnabled
}

// Placement is where one layer lands on the canvas.
type Placement struct {
	Layer int
	Rect  lsr.Rect
}

// Shadow describes the drop shadow drawn behind the base rectangle.
type Shadow struct {
	Rect    lsr.Rect
	Blur    float64
	OffsetY float64
	Color   color.Gray
}

// Frame is the geometry of one draw, in canvas pixels.
type Frame struct {
	Layers        []Placement // back to front
	BaseRect      lsr.Rect
	Highlight     bool
	HighlightRect lsr.Rect
	Rounded       bool
	Shadows       bool
	Shadow        Shadow
}

// Plan computes the geometry of img for the pan vector (panX, panY) into f,
// reusing f.Layers. Calling it before Layout is a programming error.
func Plan(img *lsr.Image, m *Metrics, s State, panX, panY float64, f *Frame) {
	if m == nil || m.ResizeRatio == 0 {
		panic("compositor: Plan called before Layout")
	}

	engaged := s.engaged()
	focusScale, focusOffset := m.UnfocusedScale, m.UnfocusedOffset
	if engaged {
		focusScale, focusOffset = m.FocusedScale, m.FocusedOffset
	}

	last := len(img.Layers) - 1
	var scalePerLayer float64
	if last > 0 {
		scalePerLayer = layerScaleRange / float64(last)
	}

	ratio := m.ResizeRatio
	centre := m.CanvasCentre
	depthPan := m.CanvasSize.Width * panDepthFactor

	f.Layers = f.Layers[:0]
	for i := last; i >= 0; i-- {
		layer := &img.Layers[i]
		depth := float64(last - i)

		sizeScale := focusScale
		if engaged {
			sizeScale += depth * scalePerLayer
		}
		width := layer.FrameSize.Width * sizeScale
		height := layer.FrameSize.Height * sizeScale

		anchor := centre
		if layer.FrameCenter != nil {
			anchor = *layer.FrameCenter
		}
		x := focusOffset.X + anchor.X*focusScale
		y := focusOffset.Y + anchor.Y*focusScale

		panOffX, panOffY := panX*basePanX, panY*basePanY
		if engaged {
			// Layers further from the centre spread out more with depth.
			x -= (centre.X - anchor.X) * spreadFactor * depth
			y -= (centre.Y - anchor.Y) * spreadFactor * depth

			panOffX += depthPan * float64(i) * panX
			panOffY += depthPan * float64(i) * panY
		}

		x -= width*0.5 + panOffX
		y -= height*0.5 + panOffY

		f.Layers = append(f.Layers, Placement{
			Layer: i,
			Rect:  lsr.Rect{X: x / ratio, Y: y / ratio, Width: width / ratio, Height: height / ratio},
		})
	}

	panOffX, panOffY := panX*basePanX, panY*basePanY
	if engaged {
		panOffX += depthPan * float64(last) * panX
		panOffY += depthPan * float64(last) * panY
	}
	baseW := img.CanvasSize.Width * focusScale
	baseH := img.CanvasSize.Height * focusScale
	f.BaseRect = lsr.Rect{
		X:      (focusOffset.X + centre.X*focusScale - (baseW*0.5 + panOffX)) / ratio,
		Y:      (focusOffset.Y + centre.Y*focusScale - (baseH*0.5 + panOffY)) / ratio,
		Width:  baseW / ratio,
		Height: baseH / ratio,
	}

	f.Highlight = engaged
	if engaged {
		fw, fh := m.FocusedSize.Width, m.FocusedSize.Height
		f.HighlightRect = lsr.Rect{
			X:      (fw*((1-panX)*0.5) - fw*0.5) / ratio,
			Y:      (fh*((1-panY)*0.5) - fw*highlightLift) / ratio,
			Width:  fw / ratio,
			Height: fw / ratio,
		}
	}

	f.Rounded = s.Rounded
	f.Shadows = s.Shadows
	if s.Shadows {
		blur := ShadowPadding * 0.25
		if engaged {
			blur = ShadowPadding * 0.5
		}
		shade := color.Gray{Y: 0x99}
		if s.Focused {
			shade = color.Gray{Y: 0x66}
		}
		f.Shadow = Shadow{
			Rect: lsr.Rect{
				X:      f.BaseRect.X + shadowIndent*0.5,
				Y:      f.BaseRect.Y + shadowIndent*0.5,
				Width:  f.BaseRect.Width - shadowIndent,
				Height: f.BaseRect.Height - shadowIndent,
			},
			Blur:    blur,
			OffsetY: blur * 0.5,
			Color:   shade,
		}
	}
}
