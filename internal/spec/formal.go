package spec

import (
	"fmt"
	"strings"
)

// ValidateQuintModel runs a textual checklist over a quint block and returns
// a warning for each structural element a trace-generating model needs but
// this one lacks. Formal models legitimately lag behind structural ones while
// a spec is being authored, so the result never blocks downstream steps.
func ValidateQuintModel(name, quintCode string) []string {
	var warnings []string

	if !strings.Contains(quintCode, "module "+name) {
		warnings = append(warnings, fmt.Sprintf("missing 'module %s { ... }' declaration", name))
	}

	if !strings.Contains(quintCode, "var ") {
		warnings = append(warnings, "missing state variable declarations (var)")
	}

	if !strings.Contains(quintCode, "action init") {
		warnings = append(warnings, "missing 'action init' for initial state")
	}

	// quint run needs a step action to generate traces.
	if !strings.Contains(quintCode, "action step") {
		warnings = append(warnings, "missing 'action step' (required for 'quint run' to generate traces)")
	}

	if !strings.Contains(quintCode, "var _action: str") && !strings.Contains(quintCode, "var _action:str") {
		warnings = append(warnings, "missing 'var _action: str' (required for ITF traces to include action names)")
	}

	hasStateVar := strings.Contains(quintCode, "var _state: str") ||
		strings.Contains(quintCode, "var _state:str") ||
		strings.Contains(quintCode, "var state: str") ||
		strings.Contains(quintCode, "var state:str")
	if !hasStateVar {
		warnings = append(warnings, "missing 'var _state: str' or 'var state: str' (required for ITF traces)")
	}

	if !strings.Contains(quintCode, "val ") {
		warnings = append(warnings, "missing invariant definitions (val)")
	}

	return warnings
}
