package spec

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// CrossReferenceEvents compares the event vocabulary declared in the cue
// state machine against the _action values asserted in the quint model.
//
// The two descriptions are authored independently and legitimately use
// different event names for the same transition (renames kept for history).
// Two cue events whose transition bodies normalize to the same signature are
// treated as aliases: a cue event is only reported missing when no event with
// its signature appears in the quint vocabulary. Quint actions have no alias
// tolerance and are reported whenever absent from the cue event set. When
// either vocabulary is empty there is nothing to compare, so schema-only
// documents produce no warnings.
func CrossReferenceEvents(cueContent, quintCode string) []string {
	var warnings []string

	cueTransitions := parseCueTransitions(cueContent)
	quintActions := parseQuintActions(quintCode)

	if len(cueTransitions) == 0 || len(quintActions) == 0 {
		return warnings
	}

	// Reverse index: signature -> events sharing it.
	sigToEvents := map[string][]string{}
	for event, sig := range cueTransitions {
		sigToEvents[sig] = append(sigToEvents[sig], event)
	}

	var missing []string
	for event, sig := range cueTransitions {
		if quintActions[event] {
			continue
		}
		aliased := false
		for _, alias := range sigToEvents[sig] {
			if quintActions[alias] {
				aliased = true
				break
			}
		}
		if !aliased {
			missing = append(missing, event)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		warnings = append(warnings, fmt.Sprintf("cue events missing from quint model (not aliased): %s",
			strings.Join(missing, ", ")))
	}

	var missingInCue []string
	for action := range quintActions {
		if _, ok := cueTransitions[action]; !ok {
			missingInCue = append(missingInCue, action)
		}
	}
	if len(missingInCue) > 0 {
		sort.Strings(missingInCue)
		warnings = append(warnings, fmt.Sprintf("quint _action values not in cue events: %s",
			strings.Join(missingInCue, ", ")))
	}

	return warnings
}

// parseCueTransitions collects event -> normalized signature from lines of
// the form "EVENT: { ... }". The all-caps head requirement also filters out
// nested field lines such as `target: {`, whose heads are lowercase.
func parseCueTransitions(cueContent string) map[string]string {
	transitions := map[string]string{}

	for _, line := range strings.Split(cueContent, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if !strings.Contains(trimmed, ":") || !strings.Contains(trimmed, "{") {
			continue
		}

		head, tail, _ := strings.Cut(trimmed, ":")
		event := strings.TrimSpace(head)
		if event == "" || !isUpperToken(event) {
			continue
		}

		transitions[event] = normalizeSignature(tail)
	}

	return transitions
}

func isUpperToken(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) && r != '_' {
			return false
		}
	}
	return true
}

// normalizeSignature lowercases a transition body and strips all whitespace,
// so that formatting differences do not defeat alias detection. Identical
// field layouts can collide; that is an accepted heuristic limitation.
func normalizeSignature(body string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(body)) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseQuintActions extracts the uppercased values of `_action' = "x"`
// assignments, discarding the init literal.
func parseQuintActions(quintCode string) map[string]bool {
	actions := map[string]bool{}

	for _, line := range strings.Split(quintCode, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.Contains(trimmed, "_action'") || !strings.Contains(trimmed, "=") {
			continue
		}
		start := strings.Index(trimmed, `"`)
		if start < 0 {
			continue
		}
		end := strings.Index(trimmed[start+1:], `"`)
		if end < 0 {
			continue
		}
		action := trimmed[start+1 : start+1+end]
		if action != "init" {
			actions[strings.ToUpper(action)] = true
		}
	}

	return actions
}
