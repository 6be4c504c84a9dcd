// Package config holds the application configuration and the per-image
// display options.
package config

import "time"

type Config struct {
	InputPath      string         `yaml:"-"`
	OutputPath     string         `yaml:"-"`
	ScenarioInput  string         `yaml:"-"`
	ScenarioOutput string         `yaml:"-"`
	Width          int            `yaml:"width"`
	Height         int            `yaml:"height"`
	FPS            int            `yaml:"fps"`
	Duration       float64        `yaml:"duration"`
	FadeDuration   float64        `yaml:"fade_duration"`
	Workers        int            `yaml:"workers"`
	VideoEncoder   string         `yaml:"video_encoder"`
	Quality        int            `yaml:"quality"`
	Background     string         `yaml:"background"`
	HighlightPath  string         `yaml:"highlight"`
	TiltSupported  bool           `yaml:"tilt"`
	Display        DisplayOptions `yaml:"display"`
	Detector       string         `yaml:"detector"`
	LogLevel       string         `yaml:"log_level"`
	ShowStats      bool           `yaml:"show_stats"`
	BuildVersion   string         `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Width:        0,
		Height:       720,
		FPS:          30,
		Duration:     6,
		FadeDuration: 0.5,
		VideoEncoder: "libx264",
		Quality:      23,
		Background:   "black",
		Display:      DefaultDisplayOptions(),
		Detector:     "alpha",
		LogLevel:     "warn",
	}
}

// FrameInterval is the time between two output frames.
func (c *Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FPS)
}

// OutputParams describes one encoded clip.
type OutputParams struct {
	SourceWidth, SourceHeight int
	Width, Height             int
	FPS                       int
	Duration                  float64
	FadeDuration              float64
	Background                string
}
