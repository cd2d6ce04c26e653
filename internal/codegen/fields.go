// Package codegen emits downstream source artifacts from spec documents:
// Rust component scaffolds with conformance tests, and TypeScript type
// declarations with property metadata.
package codegen

import (
	"regexp"
	"strconv"
	"strings"
)

// ContextField is one field of a component's extended state, parsed from the
// Context Schema section.
type ContextField struct {
	Name    string
	Default string
	Comment string
}

// ActionDef is one action declaration parsed from the Actions section.
type ActionDef struct {
	Name        string
	Description string
	Mutation    string
	Emits       []string
}

var (
	contextSectionRe = regexp.MustCompile("(?s)## Context Schema\\s*```cue\\s*context:\\s*\\{([^}]+)\\}")
	contextFieldRe   = regexp.MustCompile(`(\w+):\s*(\S+)(?:\s*//\s*(.*))?`)

	actionsSectionRe = regexp.MustCompile("(?s)## Actions\\s*```cue\\s*actions:\\s*\\{(.+?)\n```")
	actionBlockRe    = regexp.MustCompile(`(\w+):\s*\{([^}]+)\}`)
	actionDescRe     = regexp.MustCompile(`description:\s*"([^"]+)"`)
	actionMutationRe = regexp.MustCompile(`mutation:\s*"([^"]*)"`)
	actionEmitsRe    = regexp.MustCompile(`emits:\s*\[([^\]]*)\]`)
)

// ExtractContextFields parses the Context Schema cue block into fields. Each
// line has the shape "name: default // comment" with the comment optional.
func ExtractContextFields(content string) []ContextField {
	m := contextSectionRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	var fields []ContextField
	for _, fm := range contextFieldRe.FindAllStringSubmatch(m[1], -1) {
		fields = append(fields, ContextField{
			Name:    fm[1],
			Default: fm[2],
			Comment: strings.TrimSpace(fm[3]),
		})
	}
	return fields
}

// ExtractActions parses the Actions cue block into action definitions.
func ExtractActions(content string) []ActionDef {
	m := actionsSectionRe.FindStringSubmatch(content)
	if m == nil {
		return nil
	}

	var actions []ActionDef
	for _, am := range actionBlockRe.FindAllStringSubmatch(m[1], -1) {
		def := ActionDef{Name: am[1]}
		block := am[2]

		if dm := actionDescRe.FindStringSubmatch(block); dm != nil {
			def.Description = dm[1]
		}
		if mm := actionMutationRe.FindStringSubmatch(block); mm != nil && mm[1] != "" {
			def.Mutation = mm[1]
		}
		if em := actionEmitsRe.FindStringSubmatch(block); em != nil {
			for _, e := range strings.Split(em[1], ",") {
				e = strings.Trim(strings.TrimSpace(e), `"`)
				if e != "" {
					def.Emits = append(def.Emits, e)
				}
			}
		}
		actions = append(actions, def)
	}
	return actions
}

// fieldType infers the generated type from a default literal: boolean
// literals map to bool, integer literals to i32, everything else to String.
func fieldType(def string) string {
	if def == "true" || def == "false" {
		return "bool"
	}
	if _, err := strconv.ParseInt(def, 10, 32); err == nil {
		return "i32"
	}
	return "String"
}

// toSnakeCase converts camelCase identifiers to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
