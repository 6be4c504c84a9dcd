package input

import (
	"math"
	"testing"
	"time"

	"github.com/ivlev/lsrview/internal/lsr"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func nearVec(a, b Vector) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func TestPointer(t *testing.T) {
	bounds := lsr.Rect{X: 100, Y: 50, Width: 200, Height: 100}

	tests := []struct {
		name         string
		pageX, pageY float64
		pan, rotate  Vector
	}{
		{"centre", 200, 100, Vector{0, 0}, Vector{0, 0}},
		{"top left", 100, 50, Vector{1, 1}, Vector{-1, 1}},
		{"bottom right", 300, 150, Vector{-1, -1}, Vector{1, -1}},
		{"right middle", 300, 100, Vector{-1, 0}, Vector{0, -1}},
		{"outside clamps", 1000, -1000, Vector{-1, 1}, Vector{-1, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Pointer(tt.pageX, tt.pageY, bounds)
			if !nearVec(s.Pan, tt.pan) {
				t.Errorf("pan = %+v, want %+v", s.Pan, tt.pan)
			}
			if !nearVec(s.Rotate, tt.rotate) {
				t.Errorf("rotate = %+v, want %+v", s.Rotate, tt.rotate)
			}
		})
	}
}

func TestPointerEmptyBounds(t *testing.T) {
	if s := Pointer(10, 10, lsr.Rect{}); s != Neutral {
		t.Errorf("empty bounds = %+v, want neutral", s)
	}
}

func TestSetScreenAngle(t *testing.T) {
	tests := []struct {
		angle int
		mode  ScreenMode
		cal   Calibration
	}{
		{0, Portrait, Calibration{MinX: 35, MinY: -10, Range: 20, YCorrector: 1}},
		{90, Landscape, Calibration{MinX: -50, MinY: -5, Range: 10, YCorrector: 1}},
		{-90, LandscapeInverse, Calibration{MinX: 40, MinY: -5, Range: 10, YCorrector: -1}},
		{180, Landscape, Calibration{MinX: 40, MinY: -5, Range: 10, YCorrector: 1}},
	}
	for _, tt := range tests {
		var o Orientation
		o.SetScreenAngle(tt.angle)
		if o.Mode() != tt.mode {
			t.Errorf("angle %d: mode = %s, want %s", tt.angle, o.Mode(), tt.mode)
		}
		if o.Calibration() != tt.cal {
			t.Errorf("angle %d: calibration = %+v, want %+v", tt.angle, o.Calibration(), tt.cal)
		}
	}
}

func TestOrientationDefaultsToPortrait(t *testing.T) {
	var o Orientation
	s := o.Sample(Angles{Beta: 45, Gamma: 0})
	if o.Mode() != Portrait {
		t.Fatalf("mode = %s, want portrait", o.Mode())
	}
	if !nearVec(s.Pan, Vector{}) || !nearVec(s.Rotate, Vector{}) {
		t.Errorf("calibrated rest = %+v, want neutral", s)
	}
}

func TestOrientationSample(t *testing.T) {
	var o Orientation

	o.SetScreenAngle(0)
	// Portrait reads x from beta and y from gamma.
	s := o.Sample(Angles{Beta: 55, Gamma: -10})
	if !nearVec(s.Rotate, Vector{X: -1, Y: -1}) || !nearVec(s.Pan, Vector{X: -1, Y: 1}) {
		t.Errorf("portrait sample = %+v", s)
	}

	o.SetScreenAngle(-90)
	// Landscape reads x from gamma and flips beta.
	s = o.Sample(Angles{Gamma: 40, Beta: 5})
	if !nearVec(s.Rotate, Vector{X: 1, Y: -1}) || !nearVec(s.Pan, Vector{X: -1, Y: -1}) {
		t.Errorf("inverse landscape sample = %+v", s)
	}

	o.SetScreenAngle(90)
	s = o.Sample(Angles{Gamma: 1000, Beta: -1000})
	if !nearVec(s.Rotate, Vector{X: -1, Y: -1}) {
		t.Errorf("clamped sample = %+v", s)
	}
}

func TestClock(t *testing.T) {
	s := Clock(0)
	if !nearVec(s.Pan, Vector{X: -1, Y: 0}) || !nearVec(s.Rotate, Vector{X: -1, Y: 0}) {
		t.Errorf("t=0: %+v", s)
	}

	qf := math.Pi / 2 * float64(ClockPeriod)
	quarter := time.Duration(qf)
	s = Clock(quarter)
	if !near(math.Round(s.Pan.X*1e6)/1e6, 0) || !near(s.Pan.Y, 1) {
		t.Errorf("quarter turn: %+v", s)
	}
}

func TestRotation(t *testing.T) {
	if tr := Rotation(Vector{}); tr != (Transform{}) {
		t.Errorf("rest = %+v, want zero", tr)
	}

	tr := Rotation(Vector{X: 0.5, Y: -1})
	if tr.RotateX != 1.5 || tr.RotateY != -3 || tr.Perspective != 1000 {
		t.Errorf("Rotation = %+v", tr)
	}
	if got, want := tr.CSS(), "rotateY(-3deg) rotateX(1.5deg)"; got != want {
		t.Errorf("CSS = %q, want %q", got, want)
	}
}
