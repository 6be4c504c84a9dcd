package engine

import "time"

// AnimationTicker measures the elapsed time of one animating image. It is
// advanced by Runtime.Tick and stops for good on unload.
type AnimationTicker struct {
	start   time.Time
	last    time.Time
	frames  int
	stopped bool
}

func newAnimationTicker(start time.Time) *AnimationTicker {
	return &AnimationTicker{start: start, last: start}
}

// Advance records a frame at now and returns the time since start.
func (t *AnimationTicker) Advance(now time.Time) time.Duration {
	if now.Before(t.last) {
		now = t.last
	}
	t.last = now
	t.frames++
	return now.Sub(t.start)
}

func (t *AnimationTicker) Elapsed() time.Duration { return t.last.Sub(t.start) }
func (t *AnimationTicker) Frames() int            { return t.frames }
func (t *AnimationTicker) Stop()                  { t.stopped = true }
func (t *AnimationTicker) Stopped() bool          { return t.stopped }
