package director

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ScenariosDir is where generated scenarios go by default.
const ScenariosDir = "scenarios"

// GenerateScenarioPath creates a timestamped scenario filename in dir
func GenerateScenarioPath(dir string) string {
	if dir == "" {
		dir = ScenariosDir
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scenario_%s.yaml", timestamp))
}

// FindLatestScenario finds the most recent scenario file in dir
func FindLatestScenario(dir string) (string, error) {
	if dir == "" {
		dir = ScenariosDir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var scenarios []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		scenarios = append(scenarios, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(scenarios) == 0 {
		return "", fmt.Errorf("no scenario files found in %s", dir)
	}

	// newest first
	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].mod.After(scenarios[j].mod)
	})

	return scenarios[0].path, nil
}
