// Package manifest builds the repository-wide interactions aggregate. For
// every behavioral component it records the declared quint action names, the
// key-to-description table from the Keyboard Interaction block, and the mouse
// event keywords the document mentions.
package manifest

import (
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/starford/runespec/internal/spec"
)

// ComponentInteractions is one component's entry in the aggregate. Empty
// slices and maps are omitted from the output.
type ComponentInteractions struct {
	Events   []string          `json:"events,omitempty"`
	Keyboard map[string]string `json:"keyboard,omitempty"`
	Mouse    []string          `json:"mouse,omitempty"`
}

// Manifest is the repository-wide interactions.json document.
type Manifest struct {
	Version    string                           `json:"version"`
	Generated  string                           `json:"generated"`
	Components map[string]ComponentInteractions `json:"components"`
}

var (
	quintActionRe     = regexp.MustCompile(`action\s+(\w+)\s*=`)
	keyboardSectionRe = regexp.MustCompile(`(?m)^Keyboard Interaction:\s*\n((?:  - .+\n?)+)`)
	keyboardLineRe    = regexp.MustCompile(`  - ([^:]+):\s*(.+)`)
)

// mousePatterns maps lowercase search keywords to canonical event names.
var mousePatterns = []struct{ pattern, name string }{
	{"click", "click"},
	{"mousedown", "mouseDown"},
	{"mouseup", "mouseUp"},
	{"pointer_enter", "pointerEnter"},
	{"pointer_leave", "pointerLeave"},
	{"mouseleave", "mouseLeave"},
	{"mouseenter", "mouseEnter"},
	{"drag", "drag"},
	{"hover", "hover"},
}

// Build assembles the aggregate document from per-component entries.
func Build(components map[string]ComponentInteractions) Manifest {
	if components == nil {
		components = map[string]ComponentInteractions{}
	}
	return Manifest{
		Version:    "1.0",
		Generated:  generatedAt(),
		Components: components,
	}
}

// generatedAt honors SOURCE_DATE_EPOCH for reproducible builds.
func generatedAt() string {
	if v := os.Getenv("SOURCE_DATE_EPOCH"); v != "" {
		return v
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// Extract derives one component's interaction entry from its document.
// Presentational and schema kinds carry no behavior and yield nothing, as
// does a document with no events, keyboard table, or mouse keywords.
func Extract(content string) (ComponentInteractions, bool) {
	fm, _ := spec.ParseFrontmatter(content)
	if fm.Kind == spec.Presentational || fm.Kind == spec.Schema {
		return ComponentInteractions{}, false
	}

	info := ComponentInteractions{
		Events:   QuintEvents(content),
		Keyboard: KeyboardMappings(content),
		Mouse:    MouseEvents(content),
	}
	if len(info.Events) == 0 && len(info.Keyboard) == 0 && len(info.Mouse) == 0 {
		return ComponentInteractions{}, false
	}
	return info, true
}

// QuintEvents lists the action names declared in the document's quint block,
// sorted and deduplicated. The internal init and step actions are skipped.
func QuintEvents(content string) []string {
	quintCode, ok := spec.ExtractQuintBlock(content)
	if !ok {
		return nil
	}

	var events []string
	for _, m := range quintActionRe.FindAllStringSubmatch(quintCode, -1) {
		name := m[1]
		if name == "init" || name == "step" {
			continue
		}
		events = append(events, name)
	}

	sort.Strings(events)
	return dedup(events)
}

// KeyboardMappings parses the fixed-shape Keyboard Interaction block. Each
// entry is a two-space-indented "- Key: description" line.
func KeyboardMappings(content string) map[string]string {
	m := keyboardSectionRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	keyboard := make(map[string]string)
	for _, lm := range keyboardLineRe.FindAllStringSubmatch(m[1], -1) {
		key := strings.TrimSpace(lm[1])
		action := strings.TrimSpace(lm[2])
		if key != "" && action != "" {
			keyboard[key] = action
		}
	}
	if len(keyboard) == 0 {
		return nil
	}
	return keyboard
}

// MouseEvents scans the whole document for a fixed keyword vocabulary and
// returns the canonical names of the events it mentions, sorted.
func MouseEvents(content string) []string {
	lower := strings.ToLower(content)

	var events []string
	for _, p := range mousePatterns {
		if strings.Contains(lower, p.pattern) {
			events = append(events, p.name)
		}
	}

	sort.Strings(events)
	return dedup(events)
}

func dedup(sorted []string) []string {
	if len(sorted) == 0 {
		return nil
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
