package renderer

import (
	"math"
	"testing"

	"github.com/ivlev/lsrview/internal/director"
	"github.com/ivlev/lsrview/internal/input"
)

func TestTrackAt(t *testing.T) {
	track := NewTrack([]Keyframe{
		{Time: 0.0, Values: []float64{0, 10}},
		{Time: 2.0, Values: []float64{1, 20}, Ease: Ease("linear")},
		{Time: 4.0, Values: []float64{0, 20}},
	})

	tests := []struct {
		time  float64
		want  []float64
		exact bool
	}{
		{-1.0, []float64{0, 10}, true}, // Before first keyframe
		{0.0, []float64{0, 10}, true},
		{1.0, []float64{0.5, 15}, true}, // Linear midpoint
		{2.0, []float64{1, 20}, true},
		{3.0, []float64{0.5, 20}, true}, // InOutCubic is symmetric
		{4.0, []float64{0, 20}, true},
		{5.0, []float64{0, 20}, true}, // After last keyframe
	}

	var buf []float64
	for _, tt := range tests {
		buf = track.At(tt.time, buf)
		if len(buf) != len(tt.want) {
			t.Fatalf("At(%v) returned %d values", tt.time, len(buf))
		}
		for i := range buf {
			if math.Abs(buf[i]-tt.want[i]) > 1e-4 {
				t.Errorf("At(%.1f)[%d] = %.4f, want %.4f", tt.time, i, buf[i], tt.want[i])
			}
		}
	}
}

func TestTrackEasing(t *testing.T) {
	track := NewTrack([]Keyframe{
		{Time: 0, Values: []float64{0}},
		{Time: 1, Values: []float64{1}},
	})

	// Default InOutCubic starts slower than linear
	v := track.At(0.25, nil)[0]
	if v >= 0.25 || v <= 0 {
		t.Errorf("Eased value at 0.25 = %v, want in (0, 0.25)", v)
	}
}

func TestTrackSameTime(t *testing.T) {
	track := NewTrack([]Keyframe{
		{Time: 0, Values: []float64{0}},
		{Time: 1, Values: []float64{0.2}},
		{Time: 1, Values: []float64{0.8}},
		{Time: 2, Values: []float64{0.8}},
	})

	if got := track.At(1.5, nil)[0]; math.Abs(got-0.8) > 1e-6 {
		t.Errorf("At(1.5) = %v, want 0.8", got)
	}
	if got := track.Len(); got != 4 {
		t.Errorf("Len() = %d", got)
	}
}

func TestEase(t *testing.T) {
	tests := []struct {
		name string
		t    float32
		want float32
	}{
		{"linear", 0.3, 0.3},
		{"Linear", 0.3, 0.3},
		{"InOutCubic", 0.5, 0.5},
		{"unknown", 0.5, 0.5},
		{"", 0, 0},
	}
	for _, tt := range tests {
		fn := Ease(tt.name)
		if got := fn(tt.t, 0, 1, 1); math.Abs(float64(got-tt.want)) > 1e-5 {
			t.Errorf("Ease(%q)(%v) = %v, want %v", tt.name, tt.t, got, tt.want)
		}
	}
}

func TestTimeline(t *testing.T) {
	scenario := &director.Scenario{
		Duration: 4,
		Events: []director.Event{
			{Time: 0, Type: director.EventEnter, X: 0.5, Y: 0.5},
			{Time: 2, Type: director.EventMove, X: 1, Y: 0, Ease: "linear"},
			{Time: 2, Type: director.EventOrientation, Angle: 90},
			{Time: 3, Type: director.EventTilt, Angles: &input.Angles{Beta: 10}},
			{Time: 4, Type: director.EventTilt, Angles: &input.Angles{Beta: 30}, Ease: "linear"},
			{Time: 4, Type: director.EventLeave},
		},
	}
	tl := NewTimeline(scenario)

	x, y, ok := tl.PointerAt(1)
	if !ok || math.Abs(x-0.75) > 1e-6 || math.Abs(y-0.25) > 1e-6 {
		t.Errorf("PointerAt(1) = (%v, %v, %v)", x, y, ok)
	}

	if _, ok := tl.TiltAt(2); ok {
		t.Error("TiltAt before the first tilt should report no sample")
	}
	a, ok := tl.TiltAt(3.5)
	if !ok || math.Abs(a.Beta-20) > 1e-4 {
		t.Errorf("TiltAt(3.5) = %+v, %v", a, ok)
	}

	if due := tl.Due(0); len(due) != 1 || due[0].Type != director.EventEnter {
		t.Errorf("Due(0) = %+v", due)
	}
	if due := tl.Due(1); len(due) != 0 {
		t.Errorf("Due(1) = %+v", due)
	}
	if due := tl.Due(10); len(due) != 2 || due[1].Type != director.EventLeave {
		t.Errorf("Due(10) = %+v", due)
	}
	tl.Rewind()
	if due := tl.Due(10); len(due) != 3 {
		t.Errorf("after Rewind Due(10) = %d cues", len(due))
	}
}

func TestTimelineWithoutPointer(t *testing.T) {
	tl := NewTimeline(&director.Scenario{Duration: 1})
	if _, _, ok := tl.PointerAt(0.5); ok {
		t.Error("Expected no pointer position")
	}
}
