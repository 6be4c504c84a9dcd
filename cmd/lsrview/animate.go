package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/director"
	"github.com/ivlev/lsrview/internal/engine"
	"github.com/ivlev/lsrview/internal/system"
)

var animateFlags outputFlags

var animateCmd = &cobra.Command{
	Use:   "animate [bundle]",
	Short: "Записать автоматическую анимацию",
	Long: `Включает анимацию по кругу (период 500 мс на радиан) и
записывает ее в видео, GIF или папку PNG-кадров.

Примеры:
  lsrview animate image.lsr -o out.mp4 --duration 6
  lsrview animate image.lsr -o out.gif --height 360`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnimate,
}

var (
	playFlags outputFlags
	playInput string
)

var playCmd = &cobra.Command{
	Use:   "play [scenario.yaml]",
	Short: "Проиграть сценарий событий",
	Long: `Проигрывает YAML-сценарий (наведение, движение указателя,
наклон, поворот экрана, изменение размера) и записывает результат.
Без аргумента берется самый свежий сценарий из scenarios/.

Примеры:
  lsrview play scenarios/tour.yaml -o tour.mp4
  lsrview play tour.yaml --input other.lsr -o frames/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	animateFlags.register(animateCmd)
	rootCmd.AddCommand(animateCmd)

	playFlags.register(playCmd)
	playCmd.Flags().StringVarP(&playInput, "input", "i", "", "LSR-бандл вместо указанного в сценарии")
	rootCmd.AddCommand(playCmd)
}

func runAnimate(cmd *cobra.Command, args []string) error {
	inputPath, err := resolveInput(args)
	if err != nil {
		return err
	}
	animateFlags.apply(cmd, cfg)
	cfg.InputPath = inputPath
	cfg.Display.Animate = true

	return runProject(cmd, engine.NewProject(cfg, nil))
}

func runPlay(cmd *cobra.Command, args []string) error {
	scenarioPath := ""
	if len(args) > 0 {
		scenarioPath = args[0]
	} else {
		latest, err := director.FindLatestScenario("")
		if err != nil {
			return err
		}
		scenarioPath = latest
	}

	scenario, err := director.ReadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("ошибка чтения сценария: %w", err)
	}
	fmt.Printf("[*] Используется сценарий: %s\n", scenarioPath)

	playFlags.apply(cmd, cfg)
	cfg.ScenarioInput = scenarioPath
	cfg.InputPath = playInput
	if cfg.InputPath == "" {
		cfg.InputPath = scenario.Bundle
	}
	if cfg.InputPath == "" {
		return fmt.Errorf("в сценарии не указан бандл, используйте --input")
	}

	return runProject(cmd, engine.NewProject(cfg, scenario))
}

func runProject(cmd *cobra.Command, project *engine.Project) error {
	c := project.Config
	if c.OutputPath == "" {
		c.OutputPath = defaultOutput(c.InputPath, ".mp4")
	}
	if filepath.Ext(c.OutputPath) != "" {
		if err := os.MkdirAll(filepath.Dir(c.OutputPath), 0755); err != nil {
			return err
		}
	}
	c.VideoEncoder, c.Quality = resolveEncoder(c.VideoEncoder, c.Quality)
	if c.Workers <= 0 {
		c.Workers = system.DefaultWorkers(frameBytes(c))
	}

	if _, err := project.Run(cmd.Context()); err != nil {
		return fmt.Errorf("ошибка проекта: %w", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", c.OutputPath)
	return nil
}

// frameBytes estimates one RGBA output frame for worker sizing.
func frameBytes(c *config.Config) int {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = h * 16 / 9
	}
	if h <= 0 {
		h = w * 9 / 16
	}
	return w * h * 4
}
