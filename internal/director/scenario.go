package director

import (
	"github.com/ivlev/lsrview/internal/input"
	"github.com/ivlev/lsrview/internal/lsr"
)

// EventType names what happens at a scenario event.
type EventType string

const (
	EventEnter       EventType = "enter"       // pointer enters the canvas
	EventLeave       EventType = "leave"       // pointer leaves the canvas
	EventMove        EventType = "move"        // pointer moves to X,Y
	EventTilt        EventType = "tilt"        // device reports Angles
	EventOrientation EventType = "orientation" // screen rotates to Angle
	EventResize      EventType = "resize"      // container becomes Size
)

// Scenario is a timeline of host events played against one image
type Scenario struct {
	Version   string            `yaml:"version"`
	Bundle    string            `yaml:"bundle,omitempty"`
	Duration  float64           `yaml:"duration"`          // Total duration in seconds
	Options   map[string]string `yaml:"options,omitempty"` // Display options, loosely typed
	Tilt      bool              `yaml:"tilt,omitempty"`    // Enable the device orientation channel
	Container *lsr.Size         `yaml:"container,omitempty"`
	Events    []Event           `yaml:"events"`
}

// Event is one host event at a time offset.
//
// Pointer positions are fractions of the canvas bounds, so a scenario
// plays the same at any output size. Moves and tilts are keyframes: the
// player eases from the previous keyframe using Ease.
type Event struct {
	Time   float64       `yaml:"time"` // Time offset in seconds
	Type   EventType     `yaml:"type"`
	X      float64       `yaml:"x,omitempty"`
	Y      float64       `yaml:"y,omitempty"`
	Angles *input.Angles `yaml:"angles,omitempty"`
	Angle  int           `yaml:"angle,omitempty"`
	Size   *lsr.Size     `yaml:"size,omitempty"`
	Ease   string        `yaml:"ease,omitempty"`
	Note   string        `yaml:"note,omitempty"`
}
