package codegen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// PropMeta describes one declared property of a component interface.
type PropMeta struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Optional    bool   `json:"optional"`
	Description string `json:"description,omitempty"`
}

// InterfaceMeta is the parsed shape of a Component API interface block,
// written as <name>.meta.json for downstream hook and UI tests.
type InterfaceMeta struct {
	Component string     `json:"component"`
	Interface string     `json:"interface"`
	Props     []PropMeta `json:"props"`
}

var (
	interfaceNameRe = regexp.MustCompile(`interface\s+(\w+)`)
	propLineRe      = regexp.MustCompile(`^(\w+)(\?)?:\s*(.+?);?\s*$`)
	lineCommentRe   = regexp.MustCompile(`^//\s*(.*)$`)
	docCommentRe    = regexp.MustCompile(`^/\*\*\s*(.*?)\s*\*/$`)
)

// GenerateTypesFile wraps the extracted interface declaration in a standalone
// type module, re-exporting the declared interface name.
func GenerateTypesFile(component, typescript string) string {
	name := "Props"
	if m := interfaceNameRe.FindStringSubmatch(typescript); m != nil {
		name = m[1]
	}

	return fmt.Sprintf(`// Type declarations for the %s component.
// Regenerated on every build. DO NOT EDIT.

export %s

export type { %s as default };
`, component, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(typescript), "export ")), name)
}

// ParseInterface extracts the interface name and its property declarations.
// Properties are single-line "name?: type;" entries; a comment on the
// preceding line or trailing the declaration becomes the description.
func ParseInterface(component, typescript string) InterfaceMeta {
	meta := InterfaceMeta{Component: component, Props: []PropMeta{}}
	if m := interfaceNameRe.FindStringSubmatch(typescript); m != nil {
		meta.Interface = m[1]
	}

	var pending string
	for _, line := range strings.Split(typescript, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := docCommentRe.FindStringSubmatch(trimmed); m != nil {
			pending = m[1]
			continue
		}
		if m := lineCommentRe.FindStringSubmatch(trimmed); m != nil {
			pending = m[1]
			continue
		}
		if strings.HasPrefix(trimmed, "interface") || strings.HasPrefix(trimmed, "export") ||
			trimmed == "{" || trimmed == "}" || strings.HasPrefix(trimmed, "*") ||
			strings.HasPrefix(trimmed, "/*") {
			continue
		}

		decl := trimmed
		desc := pending
		pending = ""
		if i := strings.Index(decl, "//"); i >= 0 {
			desc = strings.TrimSpace(decl[i+2:])
			decl = strings.TrimSpace(decl[:i])
		}

		m := propLineRe.FindStringSubmatch(decl)
		if m == nil {
			continue
		}
		meta.Props = append(meta.Props, PropMeta{
			Name:        m[1],
			Type:        strings.TrimSuffix(strings.TrimSpace(m[3]), ";"),
			Optional:    m[2] == "?",
			Description: desc,
		})
	}

	return meta
}

// MarshalMeta renders the metadata file with stable indentation.
func MarshalMeta(meta InterfaceMeta) ([]byte, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codegen: marshal meta for %s: %w", meta.Component, err)
	}
	return append(data, '\n'), nil
}
