package vectors

import "strings"

// ParseScenarios parses a test-vectors block into scenarios. The block looks
// like YAML but is read with a deliberately constrained line scanner: only the
// leading keywords "- scenario:", "given:", "when:", "payload:", "then:",
// "context:", and "state:" are recognized. Each scenario contributes exactly
// one step; the event name is the uppercased "when:" value.
func ParseScenarios(content string) []Scenario {
	var scenarios []Scenario

	var (
		name         string
		haveScenario bool
		inGiven      bool
		inThen       bool
		givenContext any
		givenState   string
		thenContext  any
		thenState    string
		event        string
		payload      any
	)

	flush := func() {
		if !haveScenario || event == "" {
			return
		}
		scenarios = append(scenarios, Scenario{
			Name:   name,
			Source: "yaml",
			Steps: []Step{{
				Event:   event,
				Before:  State{Context: givenContext, State: givenState},
				After:   State{Context: thenContext, State: thenState},
				Payload: payload,
			}},
		})
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "- scenario:"):
			flush()
			name = strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, "- scenario:")), `"`)
			haveScenario = true
			inGiven, inThen = false, false
			givenContext, thenContext = nil, nil
			givenState, thenState = "", ""
			event = ""
			payload = nil

		case strings.HasPrefix(trimmed, "given:"):
			inGiven, inThen = true, false

		case strings.HasPrefix(trimmed, "when:"):
			event = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(trimmed, "when:")))
			inGiven, inThen = false, false

		case strings.HasPrefix(trimmed, "payload:"):
			if v, err := ParseInlineObject(strings.TrimSpace(strings.TrimPrefix(trimmed, "payload:"))); err == nil {
				payload = v
			}
			inGiven, inThen = false, false

		case strings.HasPrefix(trimmed, "then:"):
			inGiven, inThen = false, true

		case strings.HasPrefix(trimmed, "context:"):
			v, err := ParseInlineObject(strings.TrimSpace(strings.TrimPrefix(trimmed, "context:")))
			if err != nil {
				continue
			}
			if inGiven {
				givenContext = v
			} else if inThen {
				thenContext = v
			}

		case strings.HasPrefix(trimmed, "state:"):
			state := strings.Trim(strings.TrimSpace(strings.TrimPrefix(trimmed, "state:")), `"`)
			if inGiven {
				givenState = state
			} else if inThen {
				thenState = state
			}
		}
	}

	flush()
	return scenarios
}
