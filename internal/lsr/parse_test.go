package lsr

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/lsrview/internal/bundle"
	"github.com/ivlev/lsrview/internal/bundle/bundletest"
)

func openFixture(t *testing.T, b bundletest.Bundle) *bundle.Zip {
	t.Helper()
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("build bundle: %v", err)
	}
	z, err := bundle.OpenBytes(data)
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	return z
}

func TestParseTwoLayer(t *testing.T) {
	img, err := Parse(context.Background(), openFixture(t, bundletest.TwoLayer()), "two")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if img.CanvasSize != (Size{Width: 200, Height: 200}) {
		t.Errorf("unexpected canvas size %+v", img.CanvasSize)
	}
	if len(img.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(img.Layers))
	}

	front, back := img.Layers[0], img.Layers[1]
	if front.Name != "Front.imagestacklayer" || back.Name != "Back.imagestacklayer" {
		t.Errorf("layer order not preserved: %s, %s", front.Name, back.Name)
	}
	if front.FrameCenter != nil {
		t.Errorf("front layer should have no frame-center, got %+v", *front.FrameCenter)
	}
	if back.FrameCenter == nil || *back.FrameCenter != (Point{X: 50, Y: 50}) {
		t.Errorf("unexpected back frame-center %+v", back.FrameCenter)
	}
	if front.Image == nil || front.Image.Bounds().Dx() != 100 {
		t.Errorf("front layer not decoded")
	}
	if img.CanvasCentre() != (Point{X: 100, Y: 100}) {
		t.Errorf("unexpected canvas centre %+v", img.CanvasCentre())
	}
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name   string
		bundle func() bundletest.Bundle
		want   error
	}{
		{
			name: "image set without images array",
			bundle: func() bundletest.Bundle {
				b := bundletest.TwoLayer()
				b.Layers[1].NoImages = true
				return b
			},
			want: ErrLayerImageMissing,
		},
		{
			name: "bmp layer aborts the whole image",
			bundle: func() bundletest.Bundle {
				b := bundletest.TwoLayer()
				b.Layers[0].Filename = "layer.bmp"
				b.Layers[0].Data = []byte("BM")
				return b
			},
			want: ErrUnsupportedImageType,
		},
		{
			name: "missing layer manifest",
			bundle: func() bundletest.Bundle {
				b := bundletest.TwoLayer()
				b.Skip = []string{"Back.imagestacklayer/Contents.json"}
				return b
			},
			want: ErrManifestMissing,
		},
		{
			name: "missing root manifest",
			bundle: func() bundletest.Bundle {
				b := bundletest.TwoLayer()
				b.Skip = []string{"Contents.json"}
				return b
			},
			want: ErrManifestMissing,
		},
		{
			name: "corrupt layer bytes",
			bundle: func() bundletest.Bundle {
				b := bundletest.TwoLayer()
				b.Layers[1].Data = []byte("not a png")
				return b
			},
			want: ErrLayerDecodeFailed,
		},
		{
			name: "missing frame-size",
			bundle: func() bundletest.Bundle {
				b := bundletest.TwoLayer()
				b.Layers[0].NoFrameSize = true
				return b
			},
			want: ErrManifestInvalid,
		},
		{
			name: "no layers",
			bundle: func() bundletest.Bundle {
				return bundletest.Bundle{Width: 100, Height: 100}
			},
			want: ErrManifestInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Parse(context.Background(), openFixture(t, tt.bundle()), "broken")
			if img != nil {
				t.Errorf("expected no image, got %d layers", len(img.Layers))
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Errorf("expected *LoadError, got %T", err)
			}
		})
	}
}

func TestParseUppercaseExtension(t *testing.T) {
	b := bundletest.TwoLayer()
	b.Layers[0].Filename = "Front.PNG"
	if _, err := Parse(context.Background(), openFixture(t, b), "upper"); err != nil {
		t.Errorf("upper-case extension should be accepted: %v", err)
	}
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Parse(ctx, openFixture(t, bundletest.TwoLayer()), "cancelled"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoadFromDisk(t *testing.T) {
	data, _ := bundletest.TwoLayer().Bytes()
	p := filepath.Join(t.TempDir(), "Sample.lsr")
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}

	img, err := Load(context.Background(), p)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Name != "Sample" {
		t.Errorf("expected name Sample, got %s", img.Name)
	}

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "absent.lsr"))
	if !errors.Is(err, ErrBundleUnreadable) {
		t.Errorf("expected ErrBundleUnreadable, got %v", err)
	}
}

func TestNewImageValidation(t *testing.T) {
	layer := Layer{Name: "l", FrameSize: Size{Width: 10, Height: 10}}

	if _, err := NewImage("ok", Size{Width: 10, Height: 10}, []Layer{layer}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := NewImage("zero", Size{}, []Layer{layer}); !errors.Is(err, ErrManifestInvalid) {
		t.Errorf("expected ErrManifestInvalid for empty canvas, got %v", err)
	}

	img, _ := NewImage("release", Size{Width: 10, Height: 10}, []Layer{{
		Name:      "l",
		FrameSize: Size{Width: 1, Height: 1},
		Image:     nil,
	}})
	img.Layers[0].Image = solid(color.RGBA{A: 255})
	img.Release()
	if img.Layers[0].Image != nil {
		t.Error("Release should drop decoded rasters")
	}
}
