package engine

import (
	"context"
	"image"

	"github.com/ivlev/lsrview/internal/compositor"
	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/input"
	"github.com/ivlev/lsrview/internal/lsr"
)

// State is the lifecycle state of one image.
type State int

const (
	Loading State = iota
	Idle
	Focused
	Animating
	Failed
	Unloaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Idle:
		return "idle"
	case Focused:
		return "focused"
	case Animating:
		return "animating"
	case Failed:
		return "failed"
	case Unloaded:
		return "unloaded"
	default:
		return "unknown"
	}
}

// Handle is one image registered with a Runtime. All methods must be called
// from the goroutine driving the runtime.
type Handle struct {
	rt        *Runtime
	id        string
	opts      config.DisplayOptions
	container lsr.Size

	state   State
	focused bool
	zoom    bool

	image  *lsr.Image
	canvas *compositor.Canvas
	cancel context.CancelFunc
	done   chan struct{} // closed by Unload
	ticker *AnimationTicker

	// pending is set while the load is counted in Runtime.pending.
	pending bool

	sample    input.Sample
	transform input.Transform
	redraws   int

	err      error
	fallback bool
}

func (h *Handle) ID() string                     { return h.id }
func (h *Handle) State() State                   { return h.state }
func (h *Handle) Options() config.DisplayOptions { return h.opts }

// Err is the load error of a failed image.
func (h *Handle) Err() error { return h.err }

// FallbackRequested reports that the host should show its static
// placeholder instead of the canvas.
func (h *Handle) FallbackRequested() bool { return h.fallback }

// ZoomEnabled reports whether the unfocused geometry is used while idle.
func (h *Handle) ZoomEnabled() bool { return h.zoom }

// Image returns the parsed description, nil until loaded.
func (h *Handle) Image() *lsr.Image { return h.image }

// Ticker returns the animation clock of an animating image.
func (h *Handle) Ticker() *AnimationTicker { return h.ticker }

// Frame returns the canvas pixels, nil unless displayed. The image is
// overwritten by the next redraw.
func (h *Handle) Frame() *image.RGBA {
	if h.canvas == nil {
		return nil
	}
	return h.canvas.Image()
}

// Snapshot copies the current frame into dst.
func (h *Handle) Snapshot(dst *image.RGBA) *image.RGBA {
	if h.canvas == nil {
		return dst
	}
	return h.canvas.Snapshot(dst)
}

// Metrics returns the current layout.
func (h *Handle) Metrics() compositor.Metrics {
	if h.canvas == nil {
		return compositor.Metrics{}
	}
	return h.canvas.Metrics()
}

// Geometry returns the plan of the last redraw.
func (h *Handle) Geometry() *compositor.Frame {
	if h.canvas == nil {
		return nil
	}
	return h.canvas.Frame()
}

// Sample is the input of the last redraw.
func (h *Handle) Sample() input.Sample { return h.sample }

// Transform is the rotation a host should apply to the canvas element.
func (h *Handle) Transform() input.Transform { return h.transform }

// Redraws counts the draws since load.
func (h *Handle) Redraws() int { return h.redraws }

// DisplaySize is the size the host shows the canvas at. Responsive images
// follow the container width and keep the canvas aspect ratio.
func (h *Handle) DisplaySize() lsr.Size {
	if h.canvas == nil {
		return lsr.Size{}
	}
	m := h.canvas.Metrics()
	if h.opts.Responsive && h.container.Width > 0 {
		aspect := m.CanvasSize.Width / m.CanvasSize.Height
		return lsr.Size{Width: h.container.Width, Height: h.container.Width / aspect}
	}
	return lsr.Size{Width: float64(m.PixelSize.X), Height: float64(m.PixelSize.Y)}
}

func (h *Handle) displayed() bool {
	switch h.state {
	case Idle, Focused, Animating:
		return true
	}
	return false
}

func (h *Handle) renderState() compositor.State {
	return compositor.State{
		Focused:     h.focused,
		ZoomEnabled: h.zoom,
		Rounded:     h.opts.Rounded,
		Shadows:     h.opts.Shadows,
	}
}

// draw redraws the canvas for s and updates the rotation.
func (h *Handle) draw(s input.Sample) {
	h.sample = s
	h.canvas.Draw(h.image, h.renderState(), s.Pan.X, s.Pan.Y)
	h.transform = input.Rotation(s.Rotate)
	h.redraws++

	Logger().Debug("redraw", "id", h.id, "state", h.state, "pan_x", s.Pan.X, "pan_y", s.Pan.Y)
	for _, fn := range h.rt.onRedraw.snapshot() {
		fn(h)
	}
}
