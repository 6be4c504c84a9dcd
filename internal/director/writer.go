package director

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// WriteScenario writes a scenario to a YAML file
func WriteScenario(scenario *Scenario, path string) error {
	data, err := yaml.Marshal(scenario)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScenario reads a scenario from a YAML file and validates it
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &scenario, nil
}

// Normalize sorts the events by time and checks each one is complete.
// A missing duration is taken from the last event.
func (s *Scenario) Normalize() error {
	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].Time < s.Events[j].Time })

	for i, ev := range s.Events {
		if ev.Time < 0 {
			return fmt.Errorf("event %d: negative time %v", i, ev.Time)
		}
		switch ev.Type {
		case EventEnter, EventLeave, EventMove, EventOrientation:
		case EventTilt:
			if ev.Angles == nil {
				return fmt.Errorf("event %d: tilt without angles", i)
			}
		case EventResize:
			if ev.Size == nil || ev.Size.Empty() {
				return fmt.Errorf("event %d: resize without size", i)
			}
		default:
			return fmt.Errorf("event %d: unknown type %q", i, ev.Type)
		}
	}

	if s.Duration <= 0 && len(s.Events) > 0 {
		s.Duration = s.Events[len(s.Events)-1].Time
	}
	if s.Duration <= 0 {
		return fmt.Errorf("scenario has no duration")
	}
	return nil
}
