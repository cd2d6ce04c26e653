// Package vectors builds the unified test-vector corpus for a component by
// merging hand-authored test-vectors scenarios with execution traces
// simulated from the component's quint model.
package vectors

import (
	"os"
	"time"
)

// Step is one event application with the surrounding machine snapshots.
type Step struct {
	Event   string `json:"event"`
	Before  State  `json:"before"`
	After   State  `json:"after"`
	Payload any    `json:"payload,omitempty"`
}

// State pairs a context snapshot with the named machine state.
type State struct {
	Context any    `json:"context"`
	State   string `json:"state"`
}

// Scenario is a named sequence of steps from one source.
type Scenario struct {
	Name   string `json:"name"`
	Source string `json:"source"` // "yaml" or "itf"
	Steps  []Step `json:"steps"`
}

// SourceCounts records how many scenarios each source contributed.
type SourceCounts struct {
	YAML int `json:"yaml"`
	ITF  int `json:"itf"`
}

// UnifiedFile is the merged corpus written per component. The scenario order
// is yaml scenarios followed by itf scenarios, and
// SourceCounts.YAML + SourceCounts.ITF always equals len(Scenarios).
type UnifiedFile struct {
	Component    string       `json:"component"`
	GeneratedAt  string       `json:"generatedAt"`
	SourceCounts SourceCounts `json:"sourceCounts"`
	Scenarios    []Scenario   `json:"scenarios"`
}

// Unify merges parsed yaml scenarios and trace scenarios into one corpus.
func Unify(component string, yamlScenarios, itfScenarios []Scenario) UnifiedFile {
	scenarios := make([]Scenario, 0, len(yamlScenarios)+len(itfScenarios))
	scenarios = append(scenarios, yamlScenarios...)
	scenarios = append(scenarios, itfScenarios...)

	return UnifiedFile{
		Component:   component,
		GeneratedAt: generatedAt(),
		SourceCounts: SourceCounts{
			YAML: len(yamlScenarios),
			ITF:  len(itfScenarios),
		},
		Scenarios: scenarios,
	}
}

// generatedAt honors SOURCE_DATE_EPOCH for reproducible builds.
func generatedAt() string {
	if v := os.Getenv("SOURCE_DATE_EPOCH"); v != "" {
		return v
	}
	return time.Now().UTC().Format(time.RFC3339)
}
