package engine

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/ivlev/lsrview/internal/analyzer"
	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/director"
	"github.com/ivlev/lsrview/internal/effects"
	"github.com/ivlev/lsrview/internal/lsr"
	"github.com/ivlev/lsrview/internal/renderer"
	"github.com/ivlev/lsrview/internal/video"
)

const projectImageID = "main"

// Project plays one LSR image against a virtual clock and writes every
// frame to a sink. A scenario, when set, supplies the pointer and tilt
// input; otherwise the image is shown as its display options dictate.
type Project struct {
	Config   *config.Config
	Scenario *director.Scenario
	Effect   effects.Effect

	// Open creates the frame sink, video.Open when nil.
	Open func(ctx context.Context, path string, opts video.Options) (video.FrameSink, error)

	now time.Time
}

func NewProject(cfg *config.Config, scenario *director.Scenario) *Project {
	return &Project{
		Config:   cfg,
		Scenario: scenario,
	}
}

// Stats summarizes a finished Run.
type Stats struct {
	Frames   int
	Redraws  int
	Load     time.Duration
	Render   time.Duration
	Total    time.Duration
	Size     image.Point
	Duration float64
}

func (p *Project) clock() time.Time { return p.now }

func (p *Project) newRuntime() *Runtime {
	tilt := p.Config.TiltSupported
	if p.Scenario != nil && p.Scenario.Tilt {
		tilt = true
	}
	p.now = time.Unix(0, 0)
	return New(Options{
		TiltSupported: tilt,
		FrameInterval: p.Config.FrameInterval(),
		Now:           p.clock,
	})
}

func (p *Project) displayOptions() config.DisplayOptions {
	opts := p.Config.Display
	if p.Scenario != nil {
		opts = opts.Merge(p.Scenario.Options)
	}
	return opts
}

func (p *Project) container() lsr.Size {
	if p.Scenario != nil && p.Scenario.Container != nil {
		return *p.Scenario.Container
	}
	return lsr.Size{}
}

// load registers the bundle in rt and waits for it to display.
func (p *Project) load(ctx context.Context, rt *Runtime) (*Handle, error) {
	if p.Config.HighlightPath != "" {
		img, err := LoadHighlight(p.Config.HighlightPath)
		if err != nil {
			return nil, err
		}
		rt.SetHighlight(img)
	}

	h := rt.Load(ctx, projectImageID, FileSource(p.Config.InputPath), p.container(), p.displayOptions())
	if err := rt.Await(ctx); err != nil {
		return nil, err
	}
	if h.State() == Failed {
		return nil, h.Err()
	}
	return h, nil
}

func (p *Project) duration() float64 {
	if p.Scenario != nil && p.Scenario.Duration > 0 {
		return p.Scenario.Duration
	}
	return p.Config.Duration
}

// Run renders the session to Config.OutputPath.
func (p *Project) Run(ctx context.Context) (*Stats, error) {
	startTime := time.Now()
	stats := &Stats{}

	rt := p.newRuntime()
	h, err := p.load(ctx, rt)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки %s: %w", p.Config.InputPath, err)
	}
	defer rt.Unload(h)
	stats.Load = time.Since(startTime)

	src := h.Frame().Rect.Size()
	width, height := effects.FitSize(src.X, src.Y, p.Config.Width, p.Config.Height)
	stats.Size = image.Pt(width, height)
	stats.Duration = p.duration()
	if stats.Duration <= 0 {
		return nil, fmt.Errorf("длительность должна быть больше нуля")
	}

	params := config.OutputParams{
		SourceWidth:  src.X,
		SourceHeight: src.Y,
		Width:        width,
		Height:       height,
		FPS:          p.Config.FPS,
		Duration:     stats.Duration,
		FadeDuration: p.Config.FadeDuration,
		Background:   p.Config.Background,
	}

	effect := p.Effect
	if effect == nil {
		if p.Scenario != nil {
			effect = effects.NewScenarioEffect(p.Scenario)
		} else {
			effect = &effects.DefaultEffect{}
		}
	}

	bg, err := config.ParseColor(p.Config.Background)
	if err != nil {
		return nil, err
	}

	open := p.Open
	if open == nil {
		open = video.Open
	}
	sink, err := open(ctx, p.Config.OutputPath, video.Options{
		Params:  params,
		Filter:  effect.GenerateFilter(params),
		Encoder: p.Config.VideoEncoder,
		Quality: p.Config.Quality,
		Workers: p.Config.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия вывода: %w", err)
	}

	fmt.Println("--- [PROJECT: LSR RENDER] ---")
	fmt.Printf("[*] Источник: %s | Слоев: %d\n", p.Config.InputPath, len(h.Image().Layers))
	fmt.Printf("[*] Разрешение: %dx%d -> %dx%d @ %d FPS | Длительность: %.2fs\n", src.X, src.Y, width, height, p.Config.FPS, stats.Duration)
	fmt.Println("-----------------------------")

	renderStart := time.Now()
	frames, err := p.play(ctx, rt, h, sink, stats.Duration, bg, src)
	if closeErr := sink.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}

	stats.Frames = frames
	stats.Redraws = h.Redraws()
	stats.Render = time.Since(renderStart)
	stats.Total = time.Since(startTime)

	if p.Config.ShowStats {
		p.report(stats)
	}
	return stats, nil
}

// play advances the virtual clock frame by frame, feeding scripted input to
// the runtime before each tick.
func (p *Project) play(ctx context.Context, rt *Runtime, h *Handle, sink video.FrameSink, duration float64, bg color.RGBA, size image.Point) (int, error) {
	fps := float64(max(1, p.Config.FPS))
	total := int(math.Round(duration * fps))
	start := p.now

	var timeline *renderer.Timeline
	if p.Scenario != nil {
		timeline = renderer.NewTimeline(p.Scenario)
	}

	out := image.NewRGBA(image.Rectangle{Max: size})
	step := max(1, total/4)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		t := float64(i) / fps
		p.now = start.Add(time.Duration(t * float64(time.Second)))
		if timeline != nil {
			p.applyScript(rt, h, timeline, t)
		}
		rt.Pump()
		rt.Tick(p.now)

		flatten(out, h.Frame(), bg)
		if err := sink.WriteFrame(out); err != nil {
			return i, fmt.Errorf("ошибка записи кадра %d: %w", i, err)
		}

		if (i+1)%step == 0 || i+1 == total {
			fmt.Printf("[>] Ready: %d/%d\n", i+1, total)
		}
	}
	return total, nil
}

func (p *Project) applyScript(rt *Runtime, h *Handle, tl *renderer.Timeline, t float64) {
	for _, ev := range tl.Due(t) {
		switch ev.Type {
		case director.EventEnter:
			rt.PointerEnter(h)
		case director.EventLeave:
			rt.PointerLeave(h)
		case director.EventOrientation:
			rt.ScreenOrientation(ev.Angle)
		case director.EventResize:
			if ev.Size != nil {
				rt.Resize(h, *ev.Size)
			}
		}
	}

	if h.State() == Focused {
		if x, y, ok := tl.PointerAt(t); ok {
			size := h.DisplaySize()
			bounds := lsr.Rect{Width: size.Width, Height: size.Height}
			rt.PointerMove(h, x*size.Width, y*size.Height, bounds)
		}
	}
	if a, ok := tl.TiltAt(t); ok {
		rt.Tilt(a)
	}
}

// flatten composes src over an opaque background. A source of another size
// (after a responsive resize) is scaled to fit.
func flatten(dst, src *image.RGBA, bg color.RGBA) {
	draw.Draw(dst, dst.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	if src == nil {
		return
	}
	sb, db := src.Rect, dst.Rect
	if sb.Size() == db.Size() {
		draw.Draw(dst, db, src, sb.Min, draw.Over)
		return
	}
	scale := min(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	w := int(float64(sb.Dx())*scale + 0.5)
	h := int(float64(sb.Dy())*scale + 0.5)
	x := (db.Dx() - w) / 2
	y := (db.Dy() - h) / 2
	draw.ApproxBiLinear.Scale(dst, image.Rect(x, y, x+w, y+h), src, sb, draw.Over, nil)
}

func (p *Project) report(s *Stats) {
	fps := float64(s.Frames) / s.Total.Seconds()
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Loading: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Frames: %d (redraws: %d)\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, s.Total.Seconds(), s.Load.Seconds(), s.Render.Seconds(), s.Frames, s.Redraws, fps,
	)
	fmt.Print(report)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		s.Frames,
		s.Total.Seconds(),
		s.Render.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}

// Still renders a single frame. With focus the pointer enters the image and
// rests at (x, y), given as fractions of the displayed bounds.
func (p *Project) Still(ctx context.Context, focus bool, x, y float64) (*image.RGBA, error) {
	rt := p.newRuntime()
	h, err := p.load(ctx, rt)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки %s: %w", p.Config.InputPath, err)
	}
	defer rt.Unload(h)

	if focus {
		rt.PointerEnter(h)
		size := h.DisplaySize()
		rt.PointerMove(h, x*size.Width, y*size.Height, lsr.Rect{Width: size.Width, Height: size.Height})
	}
	return h.Snapshot(nil), nil
}

// GenerateScenario analyzes the layers for hotspots and writes a pointer
// tour over them. It returns the scenario path.
func (p *Project) GenerateScenario(ctx context.Context) (string, error) {
	fmt.Println("[*] Режим генерации сценария...")

	img, err := lsr.Load(ctx, p.Config.InputPath)
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки %s: %w", p.Config.InputPath, err)
	}
	defer img.Release()

	det, err := analyzer.NewDetector(p.Config.Detector)
	if err != nil {
		return "", err
	}

	fmt.Printf("[*] Анализ слоев: %d...\n", len(img.Layers))
	hotspots, err := analyzer.FindHotspots(ctx, img, det)
	if err != nil {
		// Продолжаем с пустым списком: режиссер построит обход по углам
		Logger().Warn("hotspot analysis failed", "path", p.Config.InputPath, "err", err)
		fmt.Printf("[!] Ошибка анализа: %v\n", err)
		hotspots = nil
	}

	dir := director.NewDirector(img.CanvasSize)
	scenario, err := dir.GenerateScenario(hotspots, p.Config.InputPath, p.Config.Duration)
	if err != nil {
		return "", err
	}
	scenario.Tilt = p.Config.TiltSupported

	outputPath := p.Config.ScenarioOutput
	if outputPath == "" {
		outputPath = director.GenerateScenarioPath("")
	}

	// Убеждаемся, что директория существует
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", err
	}
	if err := director.WriteScenario(scenario, outputPath); err != nil {
		return "", err
	}

	fmt.Printf("[+++] Успех! Сценарий сохранен: %s (точек интереса: %d)\n", outputPath, len(hotspots))
	return outputPath, nil
}

// LoadHighlight decodes a png, jpeg or gif file to use as the sheen overlay.
func LoadHighlight(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("highlight %s: %w", path, err)
	}
	return img, nil
}
