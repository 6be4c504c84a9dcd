// Package video writes rendered frames out: encoded through ffmpeg, as an
// animated GIF or as a numbered PNG sequence.
package video

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/system"
)

// FrameSink consumes frames of a fixed size in presentation order.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// Options configure Open.
type Options struct {
	Params  config.OutputParams
	Filter  string // ffmpeg -vf chain
	Encoder string
	Quality int
	Workers int // PNG/GIF encoders running in parallel
}

// Open picks a sink from the output path: ".gif" writes an animated GIF, a
// path without extension is a directory of PNG frames, anything else is
// handed to ffmpeg.
func Open(ctx context.Context, path string, opts Options) (FrameSink, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gif":
		return NewGIFSink(path, opts.Params, opts.Workers), nil
	case "":
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, err
		}
		return NewPNGSink(ctx, path, opts.Params, opts.Workers), nil
	}

	if err := system.CheckFFmpeg(); err != nil {
		return nil, err
	}
	return NewFFmpegSink(ctx, path, opts.Params, opts.Filter, opts.Encoder, opts.Quality)
}

// pooledCopy copies src into a pooled buffer of the output size, scaling
// when the sizes differ. The caller returns it with system.PutImage.
func pooledCopy(src *image.RGBA, p config.OutputParams) *image.RGBA {
	size := src.Rect.Size()
	if p.Width > 0 && p.Height > 0 {
		size = image.Pt(p.Width, p.Height)
	}
	dst := system.GetImage(size)
	fit(dst, src, p.Background)
	return dst
}
