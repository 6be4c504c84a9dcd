package video

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ivlev/lsrview/internal/config"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestBuildFFmpegArgs(t *testing.T) {
	params := config.OutputParams{SourceWidth: 400, SourceHeight: 300, Width: 1280, Height: 720, FPS: 25}

	tests := []struct {
		encoder string
		quality int
		want    []string
	}{
		{"libx264", 23, []string{"-crf", "23", "-preset", "medium"}},
		{"h264_nvenc", 28, []string{"-cq", "28"}},
		{"h264_videotoolbox", 75, []string{"-b:v", "7500k"}},
	}

	for _, tt := range tests {
		t.Run(tt.encoder, func(t *testing.T) {
			args := buildFFmpegArgs(400, 300, "out.mp4", params, "setsar=1", tt.encoder, tt.quality)
			joined := strings.Join(args, " ")

			for _, s := range []string{"-f rawvideo", "-pixel_format rgba", "-video_size 400x300", "-framerate 25", "-vf setsar=1", "-c:v " + tt.encoder, strings.Join(tt.want, " ")} {
				if !strings.Contains(joined, s) {
					t.Errorf("args %q should contain %q", joined, s)
				}
			}
			if args[len(args)-1] != "out.mp4" {
				t.Errorf("output path should be last, got %s", args[len(args)-1])
			}
		})
	}

	args := buildFFmpegArgs(2, 2, "o.mp4", params, "", "libx264", 23)
	if slices.Contains(args, "-vf") {
		t.Error("empty filter should not add -vf")
	}
}

func TestWriteRawRGBA(t *testing.T) {
	img := solidFrame(4, 2, color.RGBA{1, 2, 3, 255})
	sub := img.SubImage(image.Rect(1, 0, 3, 2))

	var buf strings.Builder
	if err := writeRawRGBA(&buf, sub); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2*2*4 {
		t.Errorf("wrote %d bytes, want 16", buf.Len())
	}
}

func TestFit(t *testing.T) {
	src := solidFrame(100, 50, color.RGBA{255, 0, 0, 255})
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))

	fit(dst, src, "white")

	if got := dst.RGBAAt(50, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("letterbox pixel = %v, want white", got)
	}
	if got := dst.RGBAAt(50, 50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("centre pixel = %v, want red", got)
	}

	same := image.NewRGBA(image.Rect(0, 0, 100, 50))
	fit(same, src, "")
	if got := same.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("copied pixel = %v", got)
	}
}

func TestPNGSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	params := config.OutputParams{SourceWidth: 8, SourceHeight: 8, Width: 8, Height: 8, FPS: 10}

	sink, err := Open(context.Background(), dir, Options{Params: params, Workers: 2})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok := sink.(*PNGSink); !ok {
		t.Fatalf("expected *PNGSink, got %T", sink)
	}

	for i := 0; i < 3; i++ {
		if err := sink.WriteFrame(solidFrame(8, 8, color.RGBA{uint8(i * 50), 0, 0, 255})); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(FramePath(dir, 2))
	if err != nil {
		t.Fatalf("frame 2 missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r>>8 != 100 {
		t.Errorf("frame 2 red = %d, want 100", r>>8)
	}
}

func TestGIFSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	params := config.OutputParams{SourceWidth: 8, SourceHeight: 8, Width: 16, Height: 16, FPS: 20}

	sink, err := Open(context.Background(), path, Options{Params: params, Workers: 2})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := sink.WriteFrame(solidFrame(8, 8, color.RGBA{0, 0, 255, 255})); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if len(anim.Image) != 4 {
		t.Errorf("frames = %d, want 4", len(anim.Image))
	}
	if anim.Delay[0] != 5 {
		t.Errorf("delay = %d, want 5", anim.Delay[0])
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("frame size = %v, want 16x16", b)
	}
}

func TestGIFSinkEmpty(t *testing.T) {
	sink := NewGIFSink(filepath.Join(t.TempDir(), "empty.gif"), config.OutputParams{FPS: 10}, 1)
	if err := sink.Close(); err == nil {
		t.Error("expected error for an empty animation")
	}
}
