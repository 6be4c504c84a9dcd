package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/lsrview/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Управление настройками",
	Long: `Управляет файлом настроек lsrview.

Подкоманды:
  show    показать текущие настройки
  init    создать файл с настройками по умолчанию
  path    показать путь к файлу`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Показать текущие настройки",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Создать файл настроек по умолчанию",
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Показать путь к файлу настроек",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
		return nil
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Перезаписать существующий файл")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if loader.Exists() {
		fmt.Fprintf(out, "Файл настроек: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(out, "Файл настроек: (значения по умолчанию)\n\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("ошибка вывода настроек: %w", err)
	}
	fmt.Fprintln(out, string(data))

	fmt.Fprintln(out, "Переменные окружения:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, key := range []string{"LSRVIEW_LOG_LEVEL", "LSRVIEW_TILT"} {
		value := os.Getenv(key)
		if value == "" {
			value = "(не задана)"
		}
		fmt.Fprintf(w, "  %s\t%s\n", key, value)
	}
	w.Flush()
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}

	if configForce {
		err = loader.Save(config.DefaultConfig())
	} else {
		err = loader.Init()
	}
	if err != nil {
		return fmt.Errorf("ошибка создания файла настроек: %w (для перезаписи используйте --force)", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Создан файл настроек: %s\n", loader.ConfigPath())
	return nil
}
