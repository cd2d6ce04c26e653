// Package spec implements parsing and validation of literate component
// specifications: markdown documents that describe one UI component's state
// machine through embedded cue, quint, test-vectors, and typescript blocks.
package spec

import "strings"

// Kind classifies a spec document, derived from its frontmatter.
type Kind int

const (
	// Primitive is a full statechart spec (the default).
	Primitive Kind = iota
	// Compound describes orchestration state plus child imports.
	Compound
	// Presentational is design/styling only, no state machine.
	Presentational
	// Schema declares data types only, no UI.
	Schema
)

// String returns the lowercase kind name used in frontmatter and reports.
func (k Kind) String() string {
	switch k {
	case Compound:
		return "compound"
	case Presentational:
		return "presentational"
	case Schema:
		return "schema"
	default:
		return "primitive"
	}
}

// KindFromString maps a frontmatter type value to a Kind. The legacy value
// "component" is treated as primitive; unknown values default to primitive.
func KindFromString(s string) Kind {
	switch strings.ToLower(s) {
	case "compound":
		return Compound
	case "presentational":
		return Presentational
	case "schema":
		return Schema
	case "primitive", "component":
		return Primitive
	default:
		return Primitive
	}
}

var (
	primitiveSections = []string{
		"Component API",
		"Context Schema",
		"State Machine",
		"Guards",
		"Actions",
	}
	compoundSections       = []string{"Composition", "Context Schema"}
	presentationalSections = []string{"Design Guidelines"}
	schemaSections         = []string{"Context Schema"}

	// Statechart sections are forbidden in specs that declare no behavior.
	behavioralSections = []string{
		"State Machine",
		"Guards",
		"Actions",
		"Formal Model",
		"Test Vectors",
	}
)

// RequiredSections returns the H2 sections a spec of this kind must contain.
func (k Kind) RequiredSections() []string {
	switch k {
	case Compound:
		return compoundSections
	case Presentational:
		return presentationalSections
	case Schema:
		return schemaSections
	default:
		return primitiveSections
	}
}

// SectionsRequiringCue returns the required sections that must carry a
// ```cue fence. Presentational sections are prose only.
func (k Kind) SectionsRequiringCue() []string {
	switch k {
	case Compound:
		return []string{"Context Schema"}
	case Presentational:
		return nil
	case Schema:
		return schemaSections
	default:
		return primitiveSections
	}
}

// ForbiddenSections returns sections that must not appear in this kind.
func (k Kind) ForbiddenSections() []string {
	switch k {
	case Presentational, Schema:
		return behavioralSections
	default:
		return nil
	}
}

// Frontmatter holds the metadata parsed from a spec's YAML header.
type Frontmatter struct {
	Kind        Kind
	Description string
}
