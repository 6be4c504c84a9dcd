package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/lsrview/internal/engine"
)

var (
	scenarioOutput   string
	scenarioDetector string
	scenarioDuration float64
	scenarioTilt     bool
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario [bundle]",
	Short: "Сгенерировать сценарий обхода по точкам интереса",
	Long: `Ищет на слоях точки интереса (alpha - непрозрачные области,
contrast - контрастные блоки) и строит сценарий, в котором
указатель обходит их в порядке чтения.

Пример:
  lsrview scenario image.lsr --duration 8 -o scenarios/tour.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScenario,
}

func init() {
	scenarioCmd.Flags().StringVarP(&scenarioOutput, "output", "o", "", "Путь сценария (по умолчанию scenarios/scenario_<время>.yaml)")
	scenarioCmd.Flags().StringVar(&scenarioDetector, "detector", "", "Детектор: alpha, contrast")
	scenarioCmd.Flags().Float64Var(&scenarioDuration, "duration", 0, "Длительность сценария в секундах")
	scenarioCmd.Flags().BoolVar(&scenarioTilt, "tilt", false, "Включить канал наклона в сценарии")
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	inputPath, err := resolveInput(args)
	if err != nil {
		return err
	}
	cfg.InputPath = inputPath
	cfg.ScenarioOutput = scenarioOutput
	if scenarioDetector != "" {
		cfg.Detector = scenarioDetector
	}
	if scenarioDuration > 0 {
		cfg.Duration = scenarioDuration
	}
	if cmd.Flags().Changed("tilt") {
		cfg.TiltSupported = scenarioTilt
	}

	_, err = engine.NewProject(cfg, nil).GenerateScenario(cmd.Context())
	return err
}
