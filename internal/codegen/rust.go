package codegen

import (
	"fmt"
	"strings"
)

// structNames maps component slugs to their Rust struct names. Unknown slugs
// fall back to the slug itself.
var structNames = map[string]string{
	"button":      "Button",
	"checkbox":    "Checkbox",
	"switch":      "Switch",
	"input":       "Input",
	"slider":      "Slider",
	"tabs":        "Tabs",
	"collapsible": "Collapsible",
	"togglegroup": "ToggleGroup",
	"tooltip":     "Tooltip",
	"dialog":      "Dialog",
	"select":      "Select",
}

func structName(component string) string {
	if n, ok := structNames[component]; ok {
		return n
	}
	return component
}

// GenerateRustScaffold builds a component stub from the document's context
// fields and actions. Every action method panics until an implementation
// replaces the stub, which the paired conformance test relies on.
func GenerateRustScaffold(component, content string) string {
	name := structName(component)
	fields := ExtractContextFields(content)
	actions := ExtractActions(content)

	var fieldLines []string
	var defaultLines []string
	for _, f := range fields {
		var comment string
		if f.Comment != "" {
			comment = fmt.Sprintf("    /// %s\n", f.Comment)
		}
		typ := fieldType(f.Default)
		fieldName := toSnakeCase(f.Name)
		fieldLines = append(fieldLines, fmt.Sprintf("%s    pub %s: %s,", comment, fieldName, typ))

		value := f.Default
		if typ == "String" {
			value = f.Default + ".to_string()"
		}
		defaultLines = append(defaultLines, fmt.Sprintf("            %s: %s,", fieldName, value))
	}

	var methods []string
	for _, a := range actions {
		var doc string
		if a.Description != "" {
			doc = fmt.Sprintf("    /// %s\n", a.Description)
		}
		var mutation string
		if a.Mutation != "" {
			mutation = fmt.Sprintf("        // Mutation: %s\n", a.Mutation)
		}
		var emits string
		if len(a.Emits) > 0 {
			emits = fmt.Sprintf("        // Emits: %s\n", strings.Join(a.Emits, ", "))
		}
		methods = append(methods, fmt.Sprintf(`%s    pub fn %s(&mut self) -> bool {
%s%s        unimplemented!("%s")
    }
`, doc, toSnakeCase(a.Name), mutation, emits, toSnakeCase(a.Name)))
	}

	return fmt.Sprintf(`//! %[1]s component scaffold.
//!
//! Generated stub. Method bodies are placeholders; run the conformance tests
//! and iterate until they pass.

use serde::{Deserialize, Serialize};
use wasm_bindgen::prelude::*;

/// %[1]s context, the extended state. Internal, not exposed to JS.
#[derive(Debug, Clone, Serialize, Deserialize, Default)]
pub struct %[1]sContext {
%[2]s
}

impl %[1]sContext {
    pub fn new() -> Self {
        Self {
%[3]s
        }
    }
}

#[wasm_bindgen]
pub struct %[1]s {
    context: %[1]sContext,
    state: String,
}

#[wasm_bindgen]
impl %[1]s {
    #[wasm_bindgen(constructor)]
    pub fn new() -> Self {
        Self {
            context: %[1]sContext::new(),
            state: "idle".to_string(),
        }
    }

    #[wasm_bindgen(getter)]
    pub fn state_name(&self) -> String {
        self.state.clone()
    }

    /// Context as a JSON string for JS interop.
    #[wasm_bindgen(getter)]
    pub fn context_json(&self) -> String {
        serde_json::to_string(&self.context).unwrap_or_default()
    }

%[4]s
}

impl Default for %[1]s {
    fn default() -> Self {
        Self::new()
    }
}

#[cfg(test)]
#[path = "tests.rs"]
mod tests;

fn main() {}
`, name, strings.Join(fieldLines, "\n"), strings.Join(defaultLines, "\n"), strings.Join(methods, "\n"))
}

// GenerateRustTests builds the tests.rs file paired with a scaffold. Unlike
// the scaffold it is rewritten on every run.
func GenerateRustTests(component, content string) string {
	name := structName(component)
	actions := ExtractActions(content)

	var arms []string
	for _, a := range actions {
		arms = append(arms, fmt.Sprintf("            %q => { let _ = comp.%s(); }",
			strings.ToUpper(a.Name), toSnakeCase(a.Name)))
	}

	firstEvent := `    ""`
	if len(actions) > 0 {
		firstEvent = fmt.Sprintf("    %q", strings.ToUpper(actions[0].Name))
	}

	return fmt.Sprintf(`//! %[1]s component tests.
//!
//! Regenerated on every build. DO NOT EDIT.

use super::*;

#[test]
fn test_new_creates_instance() {
    let comp = %[1]s::new();
    assert_eq!(comp.state_name(), "idle");
}

#[test]
fn test_default_context() {
    let comp = %[1]s::new();
    let ctx_json = comp.context_json();
    assert!(!ctx_json.is_empty(), "context_json should return valid JSON");
}

fn dispatch_event(comp: &mut %[1]s, event: &str) {
    match event {
%[2]s
            _ => eprintln!("Unknown event: {}", event),
    }
}

// Dispatching the first declared action panics on a fresh scaffold; the test
// starts passing once the stub is implemented.
#[test]
fn conformance_%[3]s_dispatch() {
    let mut comp = %[1]s::new();

    let first_event = first_event();
    if !first_event.is_empty() {
        dispatch_event(&mut comp, first_event);
    }

    let ctx_json = comp.context_json();
    assert!(!ctx_json.is_empty(), "context_json should return valid JSON");
}

fn first_event() -> &'static str {
%[4]s
}
`, name, strings.Join(arms, "\n"), component, firstEvent)
}

// GenerateRustConformanceTest builds the standalone conformance test placed
// beside the unified vectors. It replays every scenario step from the corpus
// file, so it fails until the component honors its recorded transitions.
func GenerateRustConformanceTest(component string) string {
	return fmt.Sprintf(`//! Conformance test for the %[1]s component.
//!
//! Regenerated on every build. DO NOT EDIT.

use serde_json::Value;

const VECTORS: &str = include_str!("../test-vectors/%[1]s.unified.json");

#[test]
fn %[1]s_vectors_parse() {
    let doc: Value = serde_json::from_str(VECTORS).expect("unified vectors must be valid JSON");
    assert_eq!(doc["component"], %[1]q);

    let scenarios = doc["scenarios"].as_array().expect("scenarios array");
    let yaml = doc["sourceCounts"]["yaml"].as_u64().unwrap_or(0);
    let itf = doc["sourceCounts"]["itf"].as_u64().unwrap_or(0);
    assert_eq!(yaml + itf, scenarios.len() as u64);

    for scenario in scenarios {
        for step in scenario["steps"].as_array().expect("steps array") {
            assert!(step["event"].is_string(), "step event must be a string");
            assert!(step["before"]["state"].is_string());
            assert!(step["after"]["state"].is_string());
        }
    }
}
`, component)
}
