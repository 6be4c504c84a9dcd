package video

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/system"
)

// GIFSink quantizes frames to the Plan 9 palette in parallel and writes an
// endlessly looping animation on Close.
type GIFSink struct {
	path   string
	params config.OutputParams
	delay  int
	frames []*image.Paletted
	g      errgroup.Group
}

func NewGIFSink(path string, params config.OutputParams, workers int) *GIFSink {
	s := &GIFSink{path: path, params: params, delay: 100 / max(1, params.FPS)}
	s.g.SetLimit(max(1, workers))
	return s
}

func (s *GIFSink) WriteFrame(img *image.RGBA) error {
	buf := pooledCopy(img, s.params)
	dst := image.NewPaletted(buf.Rect, palette.Plan9)
	s.frames = append(s.frames, dst)
	s.g.Go(func() error {
		defer system.PutImage(buf)
		draw.FloydSteinberg.Draw(dst, dst.Rect, buf, buf.Rect.Min)
		return nil
	})
	return nil
}

func (s *GIFSink) Close() error {
	if err := s.g.Wait(); err != nil {
		return err
	}
	if len(s.frames) == 0 {
		return fmt.Errorf("no frames to write")
	}

	delays := make([]int, len(s.frames))
	for i := range delays {
		delays[i] = max(1, s.delay)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &gif.GIF{Image: s.frames, Delay: delays}); err != nil {
		f.Close()
		return fmt.Errorf("gif encode error: %w", err)
	}
	return f.Close()
}
