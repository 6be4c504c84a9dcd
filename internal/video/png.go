package video

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/system"
)

// PNGSink writes frame_00000.png, frame_00001.png, ... into a directory.
type PNGSink struct {
	dir    string
	params config.OutputParams
	g      *errgroup.Group
	ctx    context.Context
	n      int
}

func NewPNGSink(ctx context.Context, dir string, params config.OutputParams, workers int) *PNGSink {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	return &PNGSink{dir: dir, params: params, g: g, ctx: ctx}
}

// FramePath returns the file name of frame i.
func FramePath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("frame_%05d.png", i))
}

func (s *PNGSink) WriteFrame(img *image.RGBA) error {
	if s.ctx.Err() != nil {
		// surface the encoder error rather than the cancellation
		if err := s.g.Wait(); err != nil {
			return err
		}
		return s.ctx.Err()
	}
	buf := pooledCopy(img, s.params)
	path := FramePath(s.dir, s.n)
	s.n++
	s.g.Go(func() error {
		defer system.PutImage(buf)
		return WritePNG(path, buf)
	})
	return nil
}

func (s *PNGSink) Close() error {
	return s.g.Wait()
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode error: %w", err)
	}
	return f.Close()
}
