// Package system wraps the host environment: descriptor limits, worker
// sizing, ffmpeg discovery and input lookup.
package system

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	}
}

// BundleExtensions are the file suffixes accepted as LSR bundles.
var BundleExtensions = []string{".lsr", ".zip"}

// FindLatestBundle возвращает самый свежий LSR-бандл в папке.
func FindLatestBundle(dir string) (string, error) {
	latest, err := findLatest(dir, BundleExtensions)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", fmt.Errorf("в папке %s не найдено LSR-файлов", dir)
	}
	return latest, nil
}

// FindLatestImage возвращает самое свежее изображение (png/jpeg/gif) в папке
// или в папке файла.
func FindLatestImage(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}

	latest, err := findLatest(searchDir, []string{".png", ".jpg", ".jpeg", ".gif"})
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", fmt.Errorf("в папке %s не найдено изображений", searchDir)
	}
	return latest, nil
}

// findLatest returns "" without error when nothing matches.
func findLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	return latestFile, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// CheckFFmpeg проверяет наличие ffmpeg в PATH.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg не найден в PATH: %w", err)
	}
	return nil
}

var (
	encodersOnce sync.Once
	encodersList string
	filtersOnce  sync.Once
	filtersList  string
)

func ffmpegList(flag string) string {
	out, err := exec.Command("ffmpeg", "-hide_banner", flag).CombinedOutput()
	if err != nil {
		return ""
	}
	return string(out)
}

func GetBestH264Encoder() (string, string) {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	encodersOnce.Do(func() { encodersList = ffmpegList("-encoders") })
	return pickEncoder(encodersList)
}

func pickEncoder(list string) (string, string) {
	encoders := []struct {
		name string
		args string
	}{
		{"h264_videotoolbox", ""},
		{"h264_nvenc", ""},
	}

	for _, enc := range encoders {
		if strings.Contains(list, enc.name) {
			return enc.name, enc.args
		}
	}

	return "libx264", ""
}

// CheckFilterSupport reports whether the local ffmpeg build has the named filter.
func CheckFilterSupport(name string) bool {
	filtersOnce.Do(func() { filtersList = ffmpegList("-filters") })
	return hasFilter(filtersList, name)
}

func hasFilter(list, name string) bool {
	for _, line := range strings.Split(list, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == name {
			return true
		}
	}
	return false
}
