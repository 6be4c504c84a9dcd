// Package effects builds the ffmpeg filter chain applied to rendered frames.
package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/system"
)

type Effect interface {
	GenerateFilter(params config.OutputParams) string
}

// DefaultEffect fits the frames into the output size and fades the clip in
// and out.
type DefaultEffect struct {
	Debug bool // Overlay the timestamp
}

func (e *DefaultEffect) GenerateFilter(p config.OutputParams) string {
	return buildFilter(p, fadeOutStart(p), e.Debug)
}

// fadeOutStart is the time the closing fade begins, or -1 when the clip is
// too short to fade both ways.
func fadeOutStart(p config.OutputParams) float64 {
	if p.FadeDuration <= 0 || p.FadeDuration*2 > p.Duration {
		return -1
	}
	return p.Duration - p.FadeDuration
}

func buildFilter(p config.OutputParams, outStart float64, debug bool) string {
	var filters []string

	if p.Width != p.SourceWidth || p.Height != p.SourceHeight {
		filters = append(filters, fmt.Sprintf(
			"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=%s",
			p.Width, p.Height, p.Width, p.Height, background(p.Background),
		))
	}
	filters = append(filters, "setsar=1")

	if outStart >= 0 {
		filters = append(filters,
			fmt.Sprintf("fade=t=in:st=0:d=%.3f", p.FadeDuration),
			fmt.Sprintf("fade=t=out:st=%.3f:d=%.3f", outStart, p.FadeDuration),
		)
	}

	if debug && system.CheckFilterSupport("drawtext") {
		filters = append(filters, "drawtext=text='%{pts\\:hms}':x=10:y=10:fontsize=24:fontcolor=yellow:box=1:boxcolor=black@0.5")
	}

	return strings.Join(filters, ",")
}

func background(name string) string {
	if name == "" {
		return "black"
	}
	return name
}

// FitSize returns the output size for a source of srcW x srcH. A zero width
// or height follows the source aspect ratio. Both sides are rounded up to
// even numbers for yuv420p.
func FitSize(srcW, srcH, width, height int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return even(width), even(height)
	}
	switch {
	case width <= 0 && height <= 0:
		width, height = srcW, srcH
	case width <= 0:
		width = int(float64(height) * float64(srcW) / float64(srcH))
	case height <= 0:
		height = int(float64(width) * float64(srcH) / float64(srcW))
	}
	return even(width), even(height)
}

func even(v int) int {
	if v%2 != 0 {
		v++
	}
	return v
}
