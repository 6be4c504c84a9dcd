package director

import (
	"fmt"
	"math"
	"sort"

	"github.com/ivlev/lsrview/internal/analyzer"
	"github.com/ivlev/lsrview/internal/compositor"
	"github.com/ivlev/lsrview/internal/lsr"
)

// Director generates pointer tours over detected hotspots
type Director struct {
	Canvas     lsr.Size // Authored canvas size
	Padding    float64  // Room around the canvas, matching the compositor
	MinDwell   float64  // Minimum time per hotspot (seconds)
	MaxDwell   float64  // Maximum time per hotspot (seconds)
	MaxTargets int      // Hotspots visited at most
	Ease       string   // Easing of every move
}

// NewDirector creates a new Director with default settings
func NewDirector(canvas lsr.Size) *Director {
	return &Director{
		Canvas:     canvas,
		Padding:    compositor.ShadowPadding,
		MinDwell:   0.8,
		MaxDwell:   2.5,
		MaxTargets: 6,
		Ease:       "InOutCubic",
	}
}

const (
	introDuration = 0.5
	outroDuration = 0.5
)

// GenerateScenario creates a scenario that enters the canvas, visits the
// hotspots in reading order and leaves again. Without hotspots the pointer
// circles the corners.
func (d *Director) GenerateScenario(hotspots []analyzer.Hotspot, bundle string, totalDuration float64) (*Scenario, error) {
	if totalDuration <= 0 {
		return nil, fmt.Errorf("invalid duration %v", totalDuration)
	}
	if d.Canvas.Empty() {
		return nil, fmt.Errorf("empty canvas")
	}

	targets := d.pickTargets(hotspots)
	if len(targets) == 0 {
		targets = []lsr.Point{{X: 0.25, Y: 0.25}, {X: 0.75, Y: 0.25}, {X: 0.75, Y: 0.75}, {X: 0.25, Y: 0.75}}
	}

	if limit := d.maxVisits(totalDuration); len(targets) > limit {
		targets = targets[:limit]
	}
	dwellTime := d.calculateDwellTime(totalDuration, len(targets))

	return &Scenario{
		Version:  "1.0",
		Bundle:   bundle,
		Duration: totalDuration,
		Events:   d.generateEvents(targets, dwellTime, totalDuration),
	}, nil
}

// pickTargets keeps the most confident hotspots and orders them for reading
// (top-to-bottom, left-to-right), as fractions of the padded canvas.
func (d *Director) pickTargets(hotspots []analyzer.Hotspot) []lsr.Point {
	sorted := make([]analyzer.Hotspot, len(hotspots))
	copy(sorted, hotspots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Confidence > sorted[j].Confidence })
	if d.MaxTargets > 0 && len(sorted) > d.MaxTargets {
		sorted = sorted[:d.MaxTargets]
	}

	// Threshold for "same row"
	threshold := d.Canvas.Height * 0.1
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].Rect.Center(), sorted[j].Rect.Center()
		if diff := ci.Y - cj.Y; diff > threshold || diff < -threshold {
			return ci.Y < cj.Y
		}
		return ci.X < cj.X
	})

	points := make([]lsr.Point, 0, len(sorted))
	for _, h := range sorted {
		points = append(points, d.relative(h.Rect.Center()))
	}
	return points
}

// relative converts an authored canvas point to a fraction of the padded
// canvas the host displays.
func (d *Director) relative(p lsr.Point) lsr.Point {
	w := d.Canvas.Width + d.Padding*2
	h := d.Canvas.Height + d.Padding*2
	return lsr.Point{
		X: clamp01((p.X + d.Padding) / w),
		Y: clamp01((p.Y + d.Padding) / h),
	}
}

func available(totalDuration float64) float64 {
	if a := totalDuration - introDuration - outroDuration; a > 0 {
		return a
	}
	return totalDuration
}

// maxVisits is how many targets fit when each gets at least MinDwell.
func (d *Director) maxVisits(totalDuration float64) int {
	if d.MinDwell <= 0 {
		return math.MaxInt
	}
	return max(1, int(available(totalDuration)/d.MinDwell))
}

// calculateDwellTime determines how long the pointer rests on each target
func (d *Director) calculateDwellTime(totalDuration float64, count int) float64 {
	dwellTime := available(totalDuration) / float64(count)
	if dwellTime > d.MaxDwell {
		dwellTime = d.MaxDwell
	}
	return dwellTime
}

func (d *Director) generateEvents(targets []lsr.Point, dwellTime, totalDuration float64) []Event {
	intro := introDuration
	if intro*2 >= totalDuration {
		intro = 0
	}

	events := []Event{
		{Time: 0, Type: EventEnter, X: 0.5, Y: 0.5, Note: "enter"},
		{Time: 0, Type: EventMove, X: 0.5, Y: 0.5},
	}

	currentTime := intro
	for i, p := range targets {
		currentTime += dwellTime
		events = append(events, Event{
			Time: currentTime,
			Type: EventMove,
			X:    p.X,
			Y:    p.Y,
			Ease: d.Ease,
			Note: fmt.Sprintf("hotspot_%d", i+1),
		})
	}

	end := totalDuration
	if currentTime < end {
		events = append(events, Event{Time: end, Type: EventMove, X: 0.5, Y: 0.5, Ease: d.Ease, Note: "centre"})
	}
	events = append(events, Event{Time: end, Type: EventLeave, Note: "leave"})
	return events
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
