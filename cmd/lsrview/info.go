package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ivlev/lsrview/internal/lsr"
)

var infoCmd = &cobra.Command{
	Use:   "info [bundle]",
	Short: "Показать описание LSR-бандла",
	Long: `Разбирает бандл и выводит размер холста, автора и слои
от ближнего к дальнему с размерами и центрами.

Пример:
  lsrview info image.lsr`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	inputPath, err := resolveInput(args)
	if err != nil {
		return err
	}

	img, err := lsr.Load(cmd.Context(), inputPath)
	if err != nil {
		return fmt.Errorf("ошибка разбора: %w", err)
	}
	defer img.Release()

	printInfo(cmd.OutOrStdout(), img)
	return nil
}

func printInfo(out io.Writer, img *lsr.Image) {
	fmt.Fprintf(out, "Имя:    %s\n", img.Name)
	fmt.Fprintf(out, "Холст:  %gx%g\n", img.CanvasSize.Width, img.CanvasSize.Height)
	if img.Info.Author != "" {
		fmt.Fprintf(out, "Автор:  %s\n", img.Info.Author)
	}
	if img.Info.Version != nil {
		fmt.Fprintf(out, "Версия: %v\n", img.Info.Version)
	}
	fmt.Fprintf(out, "Слоев:  %d\n\n", len(img.Layers))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tСЛОЙ\tРАЗМЕР\tЦЕНТР\tФАЙЛ")
	for i, l := range img.Layers {
		centre := "холст"
		if l.FrameCenter != nil {
			centre = fmt.Sprintf("%g,%g", l.FrameCenter.X, l.FrameCenter.Y)
		}
		fmt.Fprintf(w, "%d\t%s\t%gx%g\t%s\t%s\n", i, l.Name, l.FrameSize.Width, l.FrameSize.Height, centre, l.Filename)
	}
	w.Flush()
}
