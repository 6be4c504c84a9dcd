// Package renderer turns a scenario into per-frame input: eased pointer and
// tilt tracks plus the discrete events due at each frame time.
package renderer

import (
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ivlev/lsrview/internal/director"
	"github.com/ivlev/lsrview/internal/input"
)

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"inexpo":     ease.InExpo,
	"outexpo":    ease.OutExpo,
	"inoutexpo":  ease.InOutExpo,
	"outback":    ease.OutBack,
	"outbounce":  ease.OutBounce,
	"outelastic": ease.OutElastic,
}

// Ease resolves an easing by name, case-insensitively. Unknown or empty
// names fall back to InOutCubic.
func Ease(name string) ease.TweenFunc {
	if fn, ok := easings[strings.ToLower(name)]; ok {
		return fn
	}
	return ease.InOutCubic
}

// Keyframe is a value reached at Time, eased in from the previous keyframe.
type Keyframe struct {
	Time   float64
	Values []float64
	Ease   ease.TweenFunc
}

type segment struct {
	start, end float64
	tweens     []*gween.Tween
}

// Track interpolates keyframes over time. All keyframes of a track carry
// the same number of values.
type Track struct {
	keys     []Keyframe
	segments []segment
}

// NewTrack builds a track from keyframes sorted by time.
func NewTrack(keys []Keyframe) *Track {
	tr := &Track{keys: keys}
	for i := 1; i < len(keys); i++ {
		prev, next := keys[i-1], keys[i]
		seg := segment{start: prev.Time, end: next.Time}
		if d := next.Time - prev.Time; d > 0 {
			fn := next.Ease
			if fn == nil {
				fn = ease.InOutCubic
			}
			for c := range next.Values {
				seg.tweens = append(seg.tweens, gween.New(float32(prev.Values[c]), float32(next.Values[c]), float32(d), fn))
			}
		}
		tr.segments = append(tr.segments, seg)
	}
	return tr
}

// Len returns the number of keyframes.
func (tr *Track) Len() int { return len(tr.keys) }

// At writes the value at time t into dst and returns it. Times before the
// first keyframe hold the first value, times after the last hold the last.
func (tr *Track) At(t float64, dst []float64) []float64 {
	dst = dst[:0]
	if len(tr.keys) == 0 {
		return dst
	}
	if t <= tr.keys[0].Time {
		return append(dst, tr.keys[0].Values...)
	}
	last := tr.keys[len(tr.keys)-1]
	if t >= last.Time {
		return append(dst, last.Values...)
	}

	for i, seg := range tr.segments {
		if t >= seg.end {
			continue
		}
		if len(seg.tweens) == 0 {
			return append(dst, tr.keys[i+1].Values...)
		}
		for _, tw := range seg.tweens {
			v, _ := tw.Set(float32(t - seg.start))
			dst = append(dst, float64(v))
		}
		return dst
	}
	return append(dst, last.Values...)
}

// Timeline is the playback view of a scenario.
type Timeline struct {
	pointer *Track
	tilt    *Track
	cues    []director.Event
	next    int
	buf     []float64
}

// NewTimeline splits the scenario events into the pointer track (enter and
// move positions), the tilt track and the discrete cue list. The scenario
// must already be normalized.
func NewTimeline(s *director.Scenario) *Timeline {
	var pointer, tilt []Keyframe
	tl := &Timeline{}
	for _, ev := range s.Events {
		switch ev.Type {
		case director.EventEnter, director.EventMove:
			pointer = append(pointer, Keyframe{Time: ev.Time, Values: []float64{ev.X, ev.Y}, Ease: Ease(ev.Ease)})
		case director.EventTilt:
			a := ev.Angles
			tilt = append(tilt, Keyframe{Time: ev.Time, Values: []float64{a.Alpha, a.Beta, a.Gamma}, Ease: Ease(ev.Ease)})
		}
		switch ev.Type {
		case director.EventEnter, director.EventLeave, director.EventOrientation, director.EventResize:
			tl.cues = append(tl.cues, ev)
		}
	}
	tl.pointer = NewTrack(pointer)
	tl.tilt = NewTrack(tilt)
	return tl
}

// PointerAt returns the pointer position at t as fractions of the image
// bounds. ok is false when the scenario has no pointer positions.
func (tl *Timeline) PointerAt(t float64) (x, y float64, ok bool) {
	if tl.pointer.Len() == 0 {
		return 0, 0, false
	}
	tl.buf = tl.pointer.At(t, tl.buf)
	return tl.buf[0], tl.buf[1], true
}

// TiltAt returns the device orientation at t. ok is false before the first
// tilt event or when there are none.
func (tl *Timeline) TiltAt(t float64) (input.Angles, bool) {
	if tl.tilt.Len() == 0 || t < tl.tilt.keys[0].Time {
		return input.Angles{}, false
	}
	tl.buf = tl.tilt.At(t, tl.buf)
	return input.Angles{Alpha: tl.buf[0], Beta: tl.buf[1], Gamma: tl.buf[2]}, true
}

// Due returns the cues whose time is at or before t and that have not been
// returned yet, in scenario order.
func (tl *Timeline) Due(t float64) []director.Event {
	start := tl.next
	for tl.next < len(tl.cues) && tl.cues[tl.next].Time <= t {
		tl.next++
	}
	return tl.cues[start:tl.next]
}

// Rewind makes every cue due again.
func (tl *Timeline) Rewind() { tl.next = 0 }
