package effects

import (
	"github.com/ivlev/lsrview/internal/config"
	"github.com/ivlev/lsrview/internal/director"
)

// ScenarioEffect aligns the closing fade with a scripted session: the clip
// fades out from the moment the pointer leaves.
type ScenarioEffect struct {
	Scenario *director.Scenario
	Debug    bool
}

// NewScenarioEffect creates a new ScenarioEffect
func NewScenarioEffect(scenario *director.Scenario) *ScenarioEffect {
	return &ScenarioEffect{
		Scenario: scenario,
	}
}

// GenerateFilter generates FFmpeg filter for the scripted clip
func (e *ScenarioEffect) GenerateFilter(p config.OutputParams) string {
	outStart := fadeOutStart(p)
	if e.Scenario == nil || outStart < 0 {
		return buildFilter(p, outStart, e.Debug)
	}

	// Выход указателя незадолго до конца задает начало затемнения
	for _, ev := range e.Scenario.Events {
		if ev.Type != director.EventLeave {
			continue
		}
		start := ev.Time
		if start+p.FadeDuration <= p.Duration && start > p.FadeDuration {
			outStart = start
		}
	}

	return buildFilter(p, outStart, e.Debug)
}
