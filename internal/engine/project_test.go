package engine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/lsrview/internal/bundle/bundletest"
	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/director"
	"github.com/ivlev/lsrview/internal/video"
)

type memorySink struct {
	opts   video.Options
	frames []*image.RGBA
	closed bool
}

func (s *memorySink) WriteFrame(img *image.RGBA) error {
	cp := image.NewRGBA(img.Rect)
	copy(cp.Pix, img.Pix)
	s.frames = append(s.frames, cp)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return nil
}

func writeBundle(t *testing.T) string {
	t.Helper()
	data, err := bundletest.TwoLayer().Bytes()
	if err != nil {
		t.Fatalf("build bundle: %v", err)
	}
	path := filepath.Join(t.TempDir(), "two.lsr")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testProject(t *testing.T, scenario *director.Scenario) (*Project, *memorySink) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputPath = writeBundle(t)
	cfg.OutputPath = "memory"
	cfg.Width, cfg.Height = 0, 0
	cfg.FPS = 10
	cfg.Duration = 1
	cfg.Workers = 1

	sink := &memorySink{}
	p := NewProject(cfg, scenario)
	p.Open = func(_ context.Context, _ string, opts video.Options) (video.FrameSink, error) {
		sink.opts = opts
		return sink, nil
	}
	return p, sink
}

func TestProjectRun(t *testing.T) {
	p, sink := testProject(t, nil)

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Frames != 10 || len(sink.frames) != 10 {
		t.Errorf("frames = %d (sink %d), want 10", stats.Frames, len(sink.frames))
	}
	if !sink.closed {
		t.Error("sink should be closed")
	}
	if stats.Size != image.Pt(300, 300) {
		t.Errorf("output size = %v, want 300x300", stats.Size)
	}
	if sink.opts.Params.SourceWidth != 300 || sink.opts.Filter == "" {
		t.Errorf("unexpected sink options: %+v", sink.opts)
	}

	// Transparent padding is flattened onto the background
	if got := sink.frames[0].RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("corner pixel = %v, want opaque black", got)
	}
}

func TestProjectRunScenario(t *testing.T) {
	scenario := &director.Scenario{
		Duration: 1,
		Events: []director.Event{
			{Time: 0, Type: director.EventEnter, X: 0.5, Y: 0.5},
			{Time: 0.5, Type: director.EventMove, X: 0, Y: 0, Ease: "linear"},
			{Time: 0.9, Type: director.EventLeave},
		},
	}
	p, sink := testProject(t, scenario)

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(sink.frames) != 10 {
		t.Fatalf("frames = %d, want 10", len(sink.frames))
	}
	if stats.Redraws <= stats.Frames/2 {
		t.Errorf("redraws = %d, expected the pointer to redraw every focused frame", stats.Redraws)
	}

	if bytes.Equal(sink.frames[0].Pix, sink.frames[5].Pix) {
		t.Error("pointer movement should change the frame")
	}
}

func TestProjectRunMissingBundle(t *testing.T) {
	p, _ := testProject(t, nil)
	p.Config.InputPath = filepath.Join(t.TempDir(), "missing.lsr")

	if _, err := p.Run(context.Background()); err == nil {
		t.Error("expected error for a missing bundle")
	}
}

func TestProjectStill(t *testing.T) {
	p, _ := testProject(t, nil)

	neutral, err := p.Still(context.Background(), false, 0, 0)
	if err != nil {
		t.Fatalf("Still failed: %v", err)
	}
	focused, err := p.Still(context.Background(), true, 0.1, 0.1)
	if err != nil {
		t.Fatalf("Still failed: %v", err)
	}

	if neutral.Rect.Size() != image.Pt(300, 300) {
		t.Errorf("still size = %v", neutral.Rect.Size())
	}
	if bytes.Equal(neutral.Pix, focused.Pix) {
		t.Error("focused still should differ from the neutral one")
	}
}

func TestProjectGenerateScenario(t *testing.T) {
	p, _ := testProject(t, nil)
	p.Config.Duration = 5
	p.Config.ScenarioOutput = filepath.Join(t.TempDir(), "out", "tour.yaml")

	path, err := p.GenerateScenario(context.Background())
	if err != nil {
		t.Fatalf("GenerateScenario failed: %v", err)
	}

	scenario, err := director.ReadScenario(path)
	if err != nil {
		t.Fatalf("ReadScenario failed: %v", err)
	}
	if scenario.Duration != 5 {
		t.Errorf("duration = %v, want 5", scenario.Duration)
	}
	if scenario.Bundle != p.Config.InputPath {
		t.Errorf("bundle = %s", scenario.Bundle)
	}
	if scenario.Events[0].Type != director.EventEnter {
		t.Errorf("first event = %s", scenario.Events[0].Type)
	}
}

func TestFlatten(t *testing.T) {
	bg := color.RGBA{10, 20, 30, 255}
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	flatten(dst, src, bg)
	if got := dst.RGBAAt(0, 0); got != bg {
		t.Errorf("transparent pixel = %v, want %v", got, bg)
	}
	if got := dst.RGBAAt(1, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("opaque pixel = %v", got)
	}

	// Another aspect ratio is letterboxed
	wide := image.NewRGBA(image.Rect(0, 0, 8, 8))
	flatten(wide, image.NewRGBA(image.Rect(0, 0, 4, 2)), bg)
	if got := wide.RGBAAt(0, 0); got != bg {
		t.Errorf("letterbox pixel = %v, want background", got)
	}

	flatten(dst, nil, bg)
	if got := dst.RGBAAt(1, 1); got != bg {
		t.Errorf("nil source should leave the background, got %v", got)
	}
}
