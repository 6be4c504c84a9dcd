package config

import (
	"regexp"
	"strings"
)

// DisplayOptions are the per-image rendering switches.
type DisplayOptions struct {
	Rounded    bool `yaml:"rounded" json:"rounded"`
	Shadows    bool `yaml:"shadows" json:"shadows"`
	Animate    bool `yaml:"animate" json:"animate"`
	Zoom       bool `yaml:"zoom" json:"zoom"`
	Responsive bool `yaml:"responsive" json:"responsive"`
}

// DefaultDisplayOptions returns shadows and zoom on, everything else off.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{
		Shadows: true,
		Zoom:    true,
	}
}

var (
	truthy = regexp.MustCompile(`(?i)^(?:t(?:rue)?|y(?:es)?|1|on)$`)
	falsy  = regexp.MustCompile(`(?i)^(?:f(?:alse)?|no?|0+|off)$`)
)

// ParseBool reads a loosely written flag value. Values that are neither
// recognizably true nor false yield def.
func ParseBool(value string, def bool) bool {
	value = strings.TrimSpace(value)
	switch {
	case truthy.MatchString(value):
		return true
	case falsy.MatchString(value):
		return false
	default:
		return def
	}
}

// ParseDisplayOptions reads options from string attributes keyed by
// rounded, shadows, animate, zoom and responsive. Unknown keys are ignored
// and malformed values keep their default.
func ParseDisplayOptions(attrs map[string]string) DisplayOptions {
	return DefaultDisplayOptions().Merge(attrs)
}

// Merge returns o with the attributes present in attrs applied on top.
func (o DisplayOptions) Merge(attrs map[string]string) DisplayOptions {
	for key, value := range attrs {
		switch strings.ToLower(key) {
		case "rounded":
			o.Rounded = ParseBool(value, o.Rounded)
		case "shadows":
			o.Shadows = ParseBool(value, o.Shadows)
		case "animate":
			o.Animate = ParseBool(value, o.Animate)
		case "zoom":
			o.Zoom = ParseBool(value, o.Zoom)
		case "responsive":
			o.Responsive = ParseBool(value, o.Responsive)
		}
	}
	return o
}

// ParseAttributes splits "key=value" pairs separated by commas.
func ParseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || key == "" {
			continue
		}
		attrs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return attrs
}
