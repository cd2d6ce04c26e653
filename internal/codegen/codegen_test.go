package codegen

import (
	"encoding/json"
	"strings"
	"testing"
)

const checkboxSpec = "## Context Schema\n\n```cue\ncontext: {\n    checked: false   // Whether checked\n    disabled: false\n    focusVisible: false\n}\n```\n\n## Actions\n\n```cue\nactions: {\n    toggle: {\n        description: \"Flip the checked state\"\n        mutation: \"checked = !checked\"\n        emits: [\"onCheckedChange\"]\n    }\n    focus: {\n        description: \"Focus the control\"\n        mutation: \"\"\n        emits: []\n    }\n}\n```\n"

func TestExtractContextFields(t *testing.T) {
	fields := ExtractContextFields(checkboxSpec)
	if len(fields) != 3 {
		t.Fatalf("len(fields) = %d, want 3", len(fields))
	}
	if fields[0].Name != "checked" || fields[0].Default != "false" {
		t.Errorf("fields[0] = %+v", fields[0])
	}
	if fields[0].Comment != "Whether checked" {
		t.Errorf("comment = %q", fields[0].Comment)
	}
	if fields[1].Comment != "" {
		t.Errorf("fields[1] should have no comment: %q", fields[1].Comment)
	}
}

func TestExtractContextFields_NoSection(t *testing.T) {
	if fields := ExtractContextFields("# Button\n\n## Actions\n"); fields != nil {
		t.Errorf("expected nil, got %v", fields)
	}
}

func TestExtractActions(t *testing.T) {
	actions := ExtractActions(checkboxSpec)
	if len(actions) != 2 {
		t.Fatalf("len(actions) = %d, want 2", len(actions))
	}
	toggle := actions[0]
	if toggle.Name != "toggle" {
		t.Errorf("name = %q", toggle.Name)
	}
	if toggle.Description != "Flip the checked state" {
		t.Errorf("description = %q", toggle.Description)
	}
	if toggle.Mutation != "checked = !checked" {
		t.Errorf("mutation = %q", toggle.Mutation)
	}
	if len(toggle.Emits) != 1 || toggle.Emits[0] != "onCheckedChange" {
		t.Errorf("emits = %v", toggle.Emits)
	}
	// Empty mutation and emits stay empty.
	if actions[1].Mutation != "" || len(actions[1].Emits) != 0 {
		t.Errorf("focus action = %+v", actions[1])
	}
}

func TestFieldType(t *testing.T) {
	cases := []struct{ def, want string }{
		{"false", "bool"},
		{"true", "bool"},
		{"0", "i32"},
		{"42", "i32"},
		{"\"tab-0\"", "String"},
		{"idle", "String"},
	}
	for _, c := range cases {
		if got := fieldType(c.def); got != c.want {
			t.Errorf("fieldType(%q) = %q, want %q", c.def, got, c.want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"setPressedTrue", "set_pressed_true"},
		{"triggerAction", "trigger_action"},
		{"click", "click"},
	}
	for _, c := range cases {
		if got := toSnakeCase(c.in); got != c.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGenerateRustScaffold(t *testing.T) {
	scaffold := GenerateRustScaffold("checkbox", checkboxSpec)

	for _, want := range []string{
		"pub struct CheckboxContext",
		"pub checked: bool,",
		"pub focus_visible: bool,",
		"pub fn toggle(&mut self) -> bool",
		`unimplemented!("toggle")`,
		"// Mutation: checked = !checked",
		"// Emits: onCheckedChange",
		`state: "idle".to_string(),`,
	} {
		if !strings.Contains(scaffold, want) {
			t.Errorf("scaffold missing %q", want)
		}
	}
}

func TestGenerateRustScaffold_UnknownComponentUsesSlug(t *testing.T) {
	scaffold := GenerateRustScaffold("widget", "")
	if !strings.Contains(scaffold, "pub struct widgetContext") {
		t.Error("unknown slug should be used verbatim")
	}
}

func TestGenerateRustTests(t *testing.T) {
	tests := GenerateRustTests("checkbox", checkboxSpec)

	for _, want := range []string{
		`"TOGGLE" => { let _ = comp.toggle(); }`,
		`"FOCUS" => { let _ = comp.focus(); }`,
		"fn conformance_checkbox_dispatch()",
		`    "TOGGLE"`,
	} {
		if !strings.Contains(tests, want) {
			t.Errorf("tests missing %q", want)
		}
	}
}

func TestGenerateRustTests_NoActions(t *testing.T) {
	tests := GenerateRustTests("checkbox", "")
	if !strings.Contains(tests, `    ""`) {
		t.Error("first event should be empty when no actions declared")
	}
}

func TestGenerateRustConformanceTest(t *testing.T) {
	code := GenerateRustConformanceTest("tabs")
	if !strings.Contains(code, `include_str!("../test-vectors/tabs.unified.json")`) {
		t.Error("conformance test should embed the unified vectors")
	}
	if !strings.Contains(code, "fn tabs_vectors_parse()") {
		t.Error("conformance test should name the component")
	}
}

const tabsInterface = `export interface TabsProps {
  /** Currently selected tab id */
  selectedId?: string;
  disabled: boolean; // Disable all tabs
  orientation: "horizontal" | "vertical";
}`

func TestParseInterface(t *testing.T) {
	meta := ParseInterface("tabs", tabsInterface)
	if meta.Interface != "TabsProps" {
		t.Errorf("interface = %q", meta.Interface)
	}
	if len(meta.Props) != 3 {
		t.Fatalf("len(props) = %d, want 3", len(meta.Props))
	}

	sel := meta.Props[0]
	if sel.Name != "selectedId" || !sel.Optional || sel.Type != "string" {
		t.Errorf("selectedId = %+v", sel)
	}
	if sel.Description != "Currently selected tab id" {
		t.Errorf("description = %q", sel.Description)
	}

	dis := meta.Props[1]
	if dis.Optional || dis.Description != "Disable all tabs" {
		t.Errorf("disabled = %+v", dis)
	}

	if meta.Props[2].Type != `"horizontal" | "vertical"` {
		t.Errorf("orientation type = %q", meta.Props[2].Type)
	}
}

func TestParseInterface_EmptyBlock(t *testing.T) {
	meta := ParseInterface("x", "")
	if meta.Interface != "" || len(meta.Props) != 0 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestMarshalMeta_RoundTrip(t *testing.T) {
	meta := ParseInterface("tabs", tabsInterface)
	data, err := MarshalMeta(meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var round InterfaceMeta
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if round.Component != "tabs" || len(round.Props) != 3 {
		t.Errorf("round = %+v", round)
	}
}

func TestGenerateTypesFile(t *testing.T) {
	out := GenerateTypesFile("tabs", tabsInterface)
	if !strings.Contains(out, "export interface TabsProps") {
		t.Error("types file should export the interface")
	}
	if !strings.Contains(out, "export type { TabsProps as default }") {
		t.Error("types file should re-export the interface name")
	}
}
