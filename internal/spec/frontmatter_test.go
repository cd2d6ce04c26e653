package spec

import (
	"strings"
	"testing"
)

func TestParseFrontmatter_TypeAndDescription(t *testing.T) {
	content := "---\ntype: primitive\ndescription: A button\n---\n# Button\n"
	fm, body := ParseFrontmatter(content)
	if fm.Kind != Primitive {
		t.Errorf("kind = %v, want Primitive", fm.Kind)
	}
	if fm.Description != "A button" {
		t.Errorf("description = %q, want %q", fm.Description, "A button")
	}
	if !strings.Contains(body, "# Button") {
		t.Errorf("body missing title: %q", body)
	}
}

func TestParseFrontmatter_Missing(t *testing.T) {
	content := "# No frontmatter\nContent here"
	fm, body := ParseFrontmatter(content)
	if fm.Kind != Primitive {
		t.Errorf("kind = %v, want default Primitive", fm.Kind)
	}
	if !strings.Contains(body, "# No frontmatter") {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontmatter_Unterminated(t *testing.T) {
	content := "---\ntype: schema\n# never closed"
	fm, body := ParseFrontmatter(content)
	if fm.Kind != Primitive {
		t.Errorf("kind = %v, want default on unterminated header", fm.Kind)
	}
	if !strings.Contains(body, "type: schema") {
		t.Errorf("body should keep the whole text, got %q", body)
	}
}

func TestKindFromString(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
	}{
		{"primitive", Primitive},
		{"PRIMITIVE", Primitive},
		{"Compound", Compound},
		{"presentational", Presentational},
		{"schema", Schema},
		{"component", Primitive}, // legacy
		{"unknown", Primitive},
	}
	for _, c := range cases {
		if got := KindFromString(c.in); got != c.want {
			t.Errorf("KindFromString(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestKind_SectionTables(t *testing.T) {
	req := Primitive.RequiredSections()
	found := map[string]bool{}
	for _, s := range req {
		found[s] = true
	}
	if !found["State Machine"] || !found["Context Schema"] {
		t.Errorf("primitive required sections = %v", req)
	}

	forb := Presentational.ForbiddenSections()
	hasGuards := false
	for _, s := range forb {
		if s == "Guards" {
			hasGuards = true
		}
	}
	if !hasGuards {
		t.Errorf("presentational should forbid Guards, got %v", forb)
	}

	if got := Presentational.SectionsRequiringCue(); len(got) != 0 {
		t.Errorf("presentational cue sections = %v, want none", got)
	}
}
