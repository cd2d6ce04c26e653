package vectors

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// contextFields is the fixed allow-list projected from ITF state snapshots.
var contextFields = []string{
	"checked",
	"disabled",
	"readOnly",
	"focused",
	"indeterminate",
	"loading",
	"pressed",
	"selectedId",
	"focusedId",
}

// ParseTrace converts a quint ITF trace into scenarios. A trace with a
// top-level "states" array of at least two snapshots yields exactly one
// synthesized scenario whose steps correspond to adjacent snapshot pairs;
// anything else yields none.
func ParseTrace(component string, data []byte) []Scenario {
	var itf struct {
		States []map[string]any `json:"states"`
	}
	if err := json.Unmarshal(data, &itf); err != nil {
		return nil
	}
	if len(itf.States) < 2 {
		return nil
	}

	steps := make([]Step, 0, len(itf.States)-1)
	for i := 1; i < len(itf.States); i++ {
		before := itf.States[i-1]
		after := itf.States[i]

		beforeCtx := projectContext(before)
		afterCtx := projectContext(after)

		event := ""
		if a, ok := after["_action"].(string); ok {
			event = strings.ToUpper(a)
		} else {
			event = inferEvent(beforeCtx, afterCtx)
		}

		step := Step{
			Event:  event,
			Before: State{Context: beforeCtx, State: stateName(before)},
			After:  State{Context: afterCtx, State: stateName(after)},
		}
		if event == "SELECT_TAB" {
			if id, ok := after["selectedId"]; ok {
				step.Payload = map[string]any{"id": id}
			}
		}
		steps = append(steps, step)
	}

	return []Scenario{{
		Name:   fmt.Sprintf("itf-trace-%s", component),
		Source: "itf",
		Steps:  steps,
	}}
}

// projectContext keeps only the allow-listed fields of a snapshot.
func projectContext(state map[string]any) map[string]any {
	ctx := map[string]any{}
	for _, field := range contextFields {
		if v, ok := state[field]; ok {
			ctx[field] = v
		}
	}
	return ctx
}

// stateName reads the state-tracking variable, accepting both spellings.
func stateName(state map[string]any) string {
	if s, ok := state["_state"].(string); ok {
		return s
	}
	if s, ok := state["state"].(string); ok {
		return s
	}
	return "idle"
}

// inferEvent derives an event name from the first changed field, checked in
// fixed priority order. Traces from models without an action-tracking
// variable still get meaningful event labels this way.
func inferEvent(before, after map[string]any) string {
	changed := func(field string) bool {
		return !reflect.DeepEqual(before[field], after[field])
	}
	boolAfter := func(field string) bool {
		b, _ := after[field].(bool)
		return b
	}

	switch {
	case changed("checked"):
		return "TOGGLE"
	case changed("focused"):
		if boolAfter("focused") {
			return "FOCUS"
		}
		return "BLUR"
	case changed("pressed"):
		if boolAfter("pressed") {
			return "PRESS_DOWN"
		}
		return "PRESS_UP"
	case changed("loading"):
		if boolAfter("loading") {
			return "START_LOADING"
		}
		return "STOP_LOADING"
	case changed("selectedId"):
		return "SELECT_TAB"
	case changed("focusedId"):
		return "FOCUS_NEXT"
	case changed("indeterminate"):
		return "SET_INDETERMINATE"
	default:
		return "UNKNOWN"
	}
}
