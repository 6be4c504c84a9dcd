package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/engine"
	"github.com/ivlev/lsrview/internal/system"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	verbose    bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lsrview",
	Short: "Просмотр и рендер параллакс-изображений LSR",
	Long: `lsrview открывает LSR-бандлы (Apple Layer Source Representation),
накладывает слои с параллаксом и сохраняет результат в PNG, GIF,
последовательность кадров или видео через ffmpeg.

Настройки по умолчанию: ~/.lsrview/config.yaml`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Путь к файлу настроек (по умолчанию ~/.lsrview/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный лог (debug)")
	rootCmd.Version = version
}

func setup(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	cfg, err = loader.Load()
	if err != nil {
		return fmt.Errorf("ошибка чтения настроек: %w", err)
	}
	cfg.BuildVersion = version
	cfg.LogLevel = config.GetEnvOrDefault("LSRVIEW_LOG_LEVEL", cfg.LogLevel)
	cfg.TiltSupported = config.GetEnvBool("LSRVIEW_TILT", cfg.TiltSupported)

	level := parseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func newLoader() (*config.Loader, error) {
	if configPath != "" {
		return config.NewLoaderWithPath(configPath), nil
	}
	return config.NewLoader()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// resolveInput returns the bundle named in args or the newest one in input/.
func resolveInput(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	latest, err := system.FindLatestBundle("input")
	if err != nil {
		return "", fmt.Errorf("%w. Положите LSR-файл в input/", err)
	}
	fmt.Printf("[*] Выбран файл: %s\n", latest)
	return latest, nil
}

// defaultOutput names the result after the input with a timestamp.
func defaultOutput(inputPath, ext string) string {
	baseName := filepath.Base(inputPath)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join("output", fmt.Sprintf("%s_%s%s", cleanName, timestamp, ext))
}

// resolveEncoder picks the encoder and its default quality.
func resolveEncoder(encoder string, quality int) (string, int) {
	if encoder == "" || encoder == "auto" {
		encoder, _ = system.GetBestH264Encoder()
		if encoder != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoder)
		}
	}

	if quality == 0 {
		switch encoder {
		case "h264_videotoolbox":
			quality = 75 // Хорошее качество для VideoToolbox
		case "h264_nvenc":
			quality = 28 // Эквивалент CRF для NVENC
		default:
			quality = 23 // Стандартный CRF для x264
		}
	}
	return encoder, quality
}

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}
