// Package engine runs displayed LSR images: it loads them, keeps the single
// pointer focus, drives animations and routes input to the compositor.
package engine

import (
	"context"
	"image"
	"slices"
	"time"

	"github.com/ivlev/lsrview/internal/compositor"
	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/input"
	"github.com/ivlev/lsrview/internal/lsr"
)

// DefaultFrameInterval is the animation tick period used by Run.
const DefaultFrameInterval = time.Second / 60

// Source produces the parsed description of an image.
type Source func(ctx context.Context) (*lsr.Image, error)

// FileSource loads a bundle from disk.
func FileSource(path string) Source {
	return func(ctx context.Context) (*lsr.Image, error) {
		return lsr.Load(ctx, path)
	}
}

// BytesSource loads a bundle held in memory.
func BytesSource(name string, data []byte) Source {
	return func(ctx context.Context) (*lsr.Image, error) {
		return lsr.LoadBytes(ctx, name, data)
	}
}

type Options struct {
	// TiltSupported enables the device orientation channel. Non-animating
	// images then render zoomed in all the time.
	TiltSupported bool
	// FrameInterval is the tick period of Run.
	FrameInterval time.Duration
	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

// Runtime owns every displayed image. It is single-threaded: loads finish in
// the background but their results are applied by Run, Pump or Await, on
// the goroutine that calls them. Other goroutines talk to it through Post.
type Runtime struct {
	opts        Options
	handles     map[string]*Handle
	order       []*Handle
	focus       FocusRegistry
	orientation input.Orientation
	highlight   image.Image

	queue   chan func()
	pending int

	onLoad   callbackList[func(*Handle)]
	onError  callbackList[func(*Handle, error)]
	onRedraw callbackList[func(*Handle)]
}

func New(opts Options) *Runtime {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runtime{
		opts:      opts,
		handles:   make(map[string]*Handle),
		highlight: compositor.DefaultHighlight(),
		queue:     make(chan func(), 64),
	}
}

// OnLoad registers fn to run once per image after its first draw.
func (r *Runtime) OnLoad(fn func(*Handle)) *Subscription { return r.onLoad.add(fn) }

// OnError registers fn to run once per image whose load failed.
func (r *Runtime) OnError(fn func(*Handle, error)) *Subscription { return r.onError.add(fn) }

// OnRedraw registers fn to run after every draw.
func (r *Runtime) OnRedraw(fn func(*Handle)) *Subscription { return r.onRedraw.add(fn) }

// SetHighlight replaces the sheen of every image; nil disables it.
func (r *Runtime) SetHighlight(img image.Image) {
	r.highlight = img
	for _, h := range r.order {
		if h.canvas != nil {
			h.canvas.SetHighlight(img)
		}
	}
}

// Lookup returns the image registered under id.
func (r *Runtime) Lookup(id string) (*Handle, bool) {
	h, ok := r.handles[id]
	return h, ok
}

// Handles returns the registered images in load order.
func (r *Runtime) Handles() []*Handle {
	return slices.Clone(r.order)
}

// Focused returns the image currently focused by the pointer.
func (r *Runtime) Focused() *Handle {
	return r.focus.Current()
}

// ScreenMode returns the active device orientation mapping.
func (r *Runtime) ScreenMode() input.ScreenMode {
	return r.orientation.Mode()
}

// Pending counts loads whose result has not been applied yet.
func (r *Runtime) Pending() int {
	return r.pending
}

// Load registers an image under id and starts parsing it in the background.
// An image already registered under id is unloaded first.
func (r *Runtime) Load(ctx context.Context, id string, src Source, container lsr.Size, opts config.DisplayOptions) *Handle {
	if prev, ok := r.handles[id]; ok {
		Logger().Info("replacing image", "id", id)
		r.Unload(prev)
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		rt:        r,
		id:        id,
		opts:      opts,
		container: container,
		state:     Loading,
		zoom:      opts.Zoom,
		cancel:    cancel,
		done:      make(chan struct{}),
		pending:   true,
	}
	r.handles[id] = h
	r.order = append(r.order, h)
	r.pending++

	Logger().Info("loading image", "id", id)
	go func() {
		img, err := src(ctx)
		select {
		case r.queue <- func() { r.complete(h, img, err) }:
		case <-h.done:
			// Unloaded while nobody was pumping the queue.
			if img != nil {
				img.Release()
			}
		}
	}()
	return h
}

// settle stops counting h as a pending load.
func (r *Runtime) settle(h *Handle) {
	if h.pending {
		h.pending = false
		r.pending--
	}
}

func (r *Runtime) complete(h *Handle, img *lsr.Image, err error) {
	r.settle(h)
	if h.state != Loading {
		Logger().Warn("discarding late load result", "id", h.id, "state", h.state)
		if img != nil {
			img.Release()
		}
		return
	}
	h.cancel()

	if err != nil {
		h.state = Failed
		h.err = err
		h.fallback = true
		Logger().Warn("image failed to load", "id", h.id, "error", err)
		for _, fn := range r.onError.snapshot() {
			fn(h, err)
		}
		return
	}

	r.display(h, img)
}

func (r *Runtime) display(h *Handle, img *lsr.Image) {
	h.image = img
	if r.opts.TiltSupported && !h.opts.Animate {
		h.zoom = false
	}

	h.canvas = compositor.NewCanvas(compositor.Layout(img, h.container, h.opts.Responsive))
	h.canvas.SetHighlight(r.highlight)

	if h.opts.Animate {
		h.state = Animating
		h.focused = true
		h.ticker = newAnimationTicker(r.opts.Now())
		h.draw(input.Clock(0))
	} else {
		h.state = Idle
		h.draw(input.Neutral)
	}

	Logger().Info("image loaded", "id", h.id, "layers", len(img.Layers), "state", h.state)
	for _, fn := range r.onLoad.snapshot() {
		if h.state == Unloaded {
			break
		}
		fn(h)
	}
}

// Unload cancels a pending load or tears down a displayed image. Results of
// a cancelled load are discarded when they arrive.
func (r *Runtime) Unload(h *Handle) {
	if h == nil || h.state == Unloaded {
		return
	}
	h.cancel()
	close(h.done)
	r.settle(h)
	if h.ticker != nil {
		h.ticker.Stop()
	}
	r.focus.Release(h)
	if r.handles[h.id] == h {
		delete(r.handles, h.id)
	}
	r.order = slices.DeleteFunc(r.order, func(x *Handle) bool { return x == h })

	if h.image != nil {
		h.image.Release()
	}
	h.image = nil
	h.canvas = nil
	h.focused = false
	h.state = Unloaded
	Logger().Info("image unloaded", "id", h.id)
}

// PointerEnter focuses h, returning any previously focused image to idle.
func (r *Runtime) PointerEnter(h *Handle) {
	if h.state != Idle {
		Logger().Debug("pointer enter ignored", "id", h.id, "state", h.state)
		return
	}
	if prev := r.focus.Swap(h); prev != nil && prev != h {
		r.relax(prev)
	}
	h.state = Focused
	h.focused = true
	h.draw(input.Neutral)
}

// PointerLeave returns a focused h to idle.
func (r *Runtime) PointerLeave(h *Handle) {
	if h.state != Focused {
		return
	}
	r.focus.Release(h)
	r.relax(h)
}

func (r *Runtime) relax(h *Handle) {
	if h.state != Focused {
		return
	}
	h.state = Idle
	h.focused = false
	h.draw(input.Neutral)
}

// PointerMove tilts a focused h toward the page position (pageX, pageY).
// bounds is where the host shows the canvas.
func (r *Runtime) PointerMove(h *Handle, pageX, pageY float64, bounds lsr.Rect) {
	if h.state != Focused {
		Logger().Debug("pointer move ignored", "id", h.id, "state", h.state)
		return
	}
	h.draw(input.Pointer(pageX, pageY, bounds))
}

// ScreenOrientation recalibrates the tilt channel for a rotated screen.
func (r *Runtime) ScreenOrientation(angle int) {
	if !r.opts.TiltSupported {
		return
	}
	r.orientation.SetScreenAngle(angle)
	Logger().Debug("screen orientation", "angle", angle, "mode", r.orientation.Mode())
}

// Tilt applies a device orientation reading to every displayed image.
func (r *Runtime) Tilt(a input.Angles) {
	if !r.opts.TiltSupported {
		Logger().Debug("tilt ignored, not supported")
		return
	}
	s := r.orientation.Sample(a)
	for _, h := range slices.Clone(r.order) {
		if h.displayed() {
			h.draw(s)
		}
	}
}

// Resize reports a new container size. Responsive images are laid out
// again and redrawn.
func (r *Runtime) Resize(h *Handle, container lsr.Size) {
	h.container = container
	if !h.displayed() || !h.opts.Responsive {
		return
	}
	h.canvas.Resize(compositor.Layout(h.image, container, true))
	h.draw(h.sample)
}

// Tick advances every animation to now.
func (r *Runtime) Tick(now time.Time) {
	for _, h := range slices.Clone(r.order) {
		if h.state != Animating || h.ticker.Stopped() {
			continue
		}
		h.draw(input.Clock(h.ticker.Advance(now)))
	}
}

// Post queues fn to run on the runtime goroutine. It blocks while the
// queue is full, so it must not be called from that goroutine.
func (r *Runtime) Post(fn func()) {
	r.queue <- fn
}

// Pump applies queued work without blocking and returns how much ran.
func (r *Runtime) Pump() int {
	n := 0
	for {
		select {
		case fn := <-r.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Await applies queued work until no load is pending.
func (r *Runtime) Await(ctx context.Context) error {
	for r.pending > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-r.queue:
			fn()
		}
	}
	return nil
}

// Run drives animations at the frame interval and applies queued work
// until ctx is done.
func (r *Runtime) Run(ctx context.Context) error {
	t := time.NewTicker(r.opts.FrameInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-r.queue:
			fn()
		case <-t.C:
			r.Tick(r.opts.Now())
		}
	}
}
