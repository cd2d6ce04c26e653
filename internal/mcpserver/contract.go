package mcpserver

// SpecFormatContract describes the canonical literate spec format that
// LLM consumers should follow when writing or editing component specs.
const SpecFormatContract = `# Runespec Spec Format Contract

Every component spec (` + "`" + `*.spec.md` + "`" + `) MUST follow this structure.

## Structure

` + "````" + `markdown
---
type: primitive                     # primitive | compound | presentational | schema
description: One-line summary       # OPTIONAL
---

# Component Name Specification

## Component API

` + "```" + `typescript
interface ComponentProps {
  /** JSDoc description */
  checked?: boolean;
  disabled?: boolean;  // trailing comment also works
}
` + "```" + `

` + "```" + `cue
// structural contract for the public API
` + "```" + `

## Context Schema

` + "```" + `cue
context: {
  checked:  false  // is the control on
  disabled: false
}
` + "```" + `

## State Machine

` + "```" + `cue
initial: "idle"
states: { idle: { on: { TOGGLE: "idle" } } }
` + "```" + `

## Guards

` + "```" + `cue
` + "```" + `

## Actions

` + "```" + `cue
actions: {
  toggle: {
    description: "Flip the checked flag"
    mutation:    "checked = !checked"
    emits:       "change"
  }
}
` + "```" + `
` + "````" + `

## Rules

1. **Frontmatter** uses fixed keys ` + "`" + `type:` + "`" + ` and ` + "`" + `description:` + "`" + `.
   Missing or unterminated frontmatter defaults to ` + "`" + `primitive` + "`" + `.
2. **Required sections by kind:**
   - primitive: Component API, Context Schema, State Machine, Guards, Actions
     (each with a ` + "`" + `cue` + "`" + ` fence)
   - compound: Composition, Context Schema (cue fence on Context Schema)
   - presentational: Design Guidelines
   - schema: Context Schema (with a ` + "`" + `cue` + "`" + ` fence)
3. **Forbidden sections:** presentational and schema specs must not contain
   State Machine, Guards, Actions, Formal Model, or Test Vectors.
4. **Event names** are UPPERCASE in state machine transitions and lowercase
   action names in the optional ` + "`" + `quint` + "`" + ` Formal Model block. Every state
   machine event should have a matching quint action and vice versa.
5. **Formal Model** (optional): one ` + "`" + `quint` + "`" + ` fence with
   ` + "`" + `module <component>_spec` + "`" + `, a ` + "`" + `state` + "`" + ` variable, ` + "`" + `init` + "`" + `, and ` + "`" + `step` + "`" + `.
6. **Test Vectors** (optional): one ` + "`" + `test-vectors` + "`" + ` fence with scenarios of
   ` + "`" + `when:` + "`" + `/` + "`" + `then:` + "`" + ` steps; ITF traces from quint runs are merged in.
7. **File paths** end with ` + "`" + `.spec.md` + "`" + `; the component name is the filename
   stem (` + "`" + `tabs/tabs.spec.md` + "`" + ` names the ` + "`" + `tabs` + "`" + ` component).
8. **Encoding** is UTF-8 with a trailing newline.

## Validation

Validation is advisory: warnings are reported (via ` + "`" + `validate_spec` + "`" + ` or the
build report) but never block artifact generation. Fix warnings before
relying on generated scaffolds or conformance tests.
`
