package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/lsrview/internal/bundle/bundletest"
	"github.com/ivlev/lsrview/internal/config"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "lsrview" {
		t.Errorf("expected Use 'lsrview', got '%s'", rootCmd.Use)
	}

	want := map[string]bool{"info": false, "render": false, "animate": false, "play": false, "scenario": false, "config": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
		if c.Short == "" {
			t.Errorf("command %s has no Short description", c.Name())
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %s is not registered", name)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"error", slog.LevelError},
		{"warn", slog.LevelWarn},
		{"", slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveEncoder(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		want    int
	}{
		{"libx264", 0, 23},
		{"h264_nvenc", 0, 28},
		{"h264_videotoolbox", 0, 75},
		{"libx264", 18, 18},
	}
	for _, tt := range tests {
		enc, q := resolveEncoder(tt.encoder, tt.quality)
		if enc != tt.encoder || q != tt.want {
			t.Errorf("resolveEncoder(%s, %d) = %s, %d", tt.encoder, tt.quality, enc, q)
		}
	}
}

func TestDefaultOutput(t *testing.T) {
	out := defaultOutput("/tmp/my image.lsr", ".gif")
	if filepath.Dir(out) != "output" || !strings.HasPrefix(filepath.Base(out), "my_image_") || filepath.Ext(out) != ".gif" {
		t.Errorf("unexpected output path: %s", out)
	}
}

func TestFrameBytes(t *testing.T) {
	c := config.DefaultConfig()
	c.Width, c.Height = 0, 720
	if got := frameBytes(c); got != 1280*720*4 {
		t.Errorf("frameBytes() = %d", got)
	}
}

func writeBundle(t *testing.T, dir string) string {
	t.Helper()
	data, err := bundletest.TwoLayer().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "two.lsr")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	bundle := writeBundle(t, dir)

	out := execute(t, "info", bundle, "--config", filepath.Join(dir, "config.yaml"))
	if !strings.Contains(out, "Слоев:  2") || !strings.Contains(out, "200x200") {
		t.Errorf("unexpected info output:\n%s", out)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	bundle := writeBundle(t, dir)
	output := filepath.Join(dir, "out", "still.png")

	execute(t, "render", bundle, "-o", output, "--focus", "--config", filepath.Join(dir, "config.yaml"))

	if _, err := os.Stat(output); err != nil {
		t.Errorf("render did not write %s: %v", output, err)
	}
}

func TestConfigInitCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	out := execute(t, "config", "init", "--config", path)
	if !strings.Contains(out, path) {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}
