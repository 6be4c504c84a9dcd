package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/lsrview/internal/config"
)

// outputFlags are shared by the commands that write frames.
type outputFlags struct {
	output     string
	width      int
	height     int
	fps        int
	duration   float64
	fade       float64
	workers    int
	encoder    string
	quality    int
	background string
	highlight  string
	options    string
	tilt       bool
	stats      bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "Путь вывода: .mp4/.mov через ffmpeg, .gif, или папка для PNG-кадров")
	fl.IntVar(&f.width, "width", 0, "Ширина (0 - по пропорциям)")
	fl.IntVar(&f.height, "height", 0, "Высота (0 - по пропорциям)")
	fl.IntVar(&f.fps, "fps", 0, "FPS")
	fl.Float64Var(&f.duration, "duration", 0, "Длительность в секундах")
	fl.Float64Var(&f.fade, "fade", 0, "Длительность затемнения в начале и конце (сек)")
	fl.IntVar(&f.workers, "workers", 0, "Потоки кодирования кадров (0 - по числу ядер и памяти)")
	fl.StringVar(&f.encoder, "encoder", "", "Видеокодек ffmpeg (auto - выбрать аппаратный)")
	fl.IntVar(&f.quality, "quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	fl.StringVar(&f.background, "background", "", "Цвет фона: имя или #rrggbb")
	fl.StringVar(&f.highlight, "highlight", "", "Изображение блика вместо стандартного")
	fl.StringVar(&f.options, "options", "", "Параметры показа: rounded=yes,shadows=no,animate=1,zoom=0,responsive=1")
	fl.BoolVar(&f.tilt, "tilt", false, "Включить канал наклона устройства")
	fl.BoolVar(&f.stats, "stats", false, "Показать отчет о производительности")
}

// apply overrides cfg with the flags the user set explicitly.
func (f *outputFlags) apply(cmd *cobra.Command, c *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("width") {
		c.Width = f.width
	}
	if fl.Changed("height") {
		c.Height = f.height
	}
	if fl.Changed("fps") {
		c.FPS = f.fps
	}
	if fl.Changed("duration") {
		c.Duration = f.duration
	}
	if fl.Changed("fade") {
		c.FadeDuration = f.fade
	}
	if fl.Changed("workers") {
		c.Workers = f.workers
	}
	if fl.Changed("encoder") {
		c.VideoEncoder = f.encoder
	}
	if fl.Changed("quality") {
		c.Quality = f.quality
	}
	if fl.Changed("background") {
		c.Background = f.background
	}
	if fl.Changed("highlight") {
		c.HighlightPath = f.highlight
	}
	if fl.Changed("tilt") {
		c.TiltSupported = f.tilt
	}
	if fl.Changed("stats") {
		c.ShowStats = f.stats
	}
	if f.options != "" {
		c.Display = c.Display.Merge(config.ParseAttributes(f.options))
	}
	c.OutputPath = f.output
}
