package input

import "math"

// ScreenMode names the axis remapping used for device angles.
type ScreenMode string

const (
	Portrait         ScreenMode = "portrait"
	Landscape        ScreenMode = "landscape"
	LandscapeInverse ScreenMode = "landscapeInverse"
)

// Angles is a raw device orientation reading in degrees.
type Angles struct {
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Beta  float64 `yaml:"beta" json:"beta"`
	Gamma float64 `yaml:"gamma" json:"gamma"`
}

// Calibration holds the constants mapping raw angles into [0, 1].
type Calibration struct {
	MinX       float64
	MinY       float64
	Range      float64
	YCorrector float64
}

// Orientation calibrates device angles for the current screen orientation.
// The zero value is uncalibrated and behaves as portrait on first use.
type Orientation struct {
	mode ScreenMode
	cal  Calibration
}

// SetScreenAngle recalibrates for a screen rotated by angle degrees
// (0, 90, -90 or 180).
func (o *Orientation) SetScreenAngle(angle int) {
	if angle == 0 {
		o.mode = Portrait
		o.cal.Range = 20
		o.cal.MinY = -10
	} else {
		// less rotation on landscape
		o.mode = Landscape
		if angle == -90 {
			o.mode = LandscapeInverse
		}
		o.cal.Range = 10
		o.cal.MinY = -5
	}

	if angle == 90 {
		o.cal.MinX = o.cal.MinY - 45
	} else {
		o.cal.MinX = o.cal.MinY + 45
	}

	o.cal.YCorrector = 1
	if angle == -90 {
		o.cal.YCorrector = -1
	}
}

// Mode returns the active axis remapping, calibrating as portrait if needed.
func (o *Orientation) Mode() ScreenMode {
	o.ensure()
	return o.mode
}

// Calibration returns the active constants.
func (o *Orientation) Calibration() Calibration {
	o.ensure()
	return o.cal
}

// Sample normalizes a raw reading.
func (o *Orientation) Sample(a Angles) Sample {
	o.ensure()

	var x, y float64
	switch o.mode {
	case Portrait:
		x, y = a.Beta, a.Gamma
	default:
		x, y = a.Gamma, a.Beta
	}
	y *= o.cal.YCorrector

	relX := clamp((x-o.cal.MinX)/o.cal.Range, 0, 1)
	relY := clamp((y-o.cal.MinY)/o.cal.Range, 0, 1)
	if math.IsNaN(relX) {
		relX = 0.5
	}
	if math.IsNaN(relY) {
		relY = 0.5
	}

	return Sample{
		Rotate: Vector{X: -(relX*2 - 1), Y: relY*2 - 1},
		Pan:    Vector{X: relY*2 - 1, Y: relX*2 - 1},
	}
}

func (o *Orientation) ensure() {
	if o.mode == "" {
		o.SetScreenAngle(0)
	}
}
