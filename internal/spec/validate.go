package spec

import (
	"fmt"
	"strings"
)

// ValidateStructure checks a spec body against the section rules for its
// kind: an H1 title must exist, every required H2 section must be present,
// each cue-requiring section must carry a ```cue fence, and no forbidden
// section may appear. Findings are returned as messages; an empty slice
// means the structure is valid. Structure problems never stop the pipeline.
func ValidateStructure(content string, kind Kind) []string {
	var errs []string

	required := kind.RequiredSections()
	cueRequired := kind.SectionsRequiringCue()
	forbidden := kind.ForbiddenSections()

	foundH1 := false
	currentH2 := ""
	sectionsWithCue := map[string]bool{}
	wrongBlock := map[string]string{}
	foundSections := map[string]bool{}

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## "):
			foundH1 = true

		case strings.HasPrefix(line, "## "):
			currentH2 = strings.TrimSpace(strings.TrimPrefix(line, "## "))
			foundSections[currentH2] = true

		case strings.TrimSpace(line) == "```cue":
			if currentH2 != "" {
				sectionsWithCue[currentH2] = true
			}

		case strings.HasPrefix(strings.TrimSpace(line), "```") && strings.TrimSpace(line) != "```":
			// Some other fence tag: only interesting in cue-required sections.
			tag := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
			if currentH2 != "" && tag != "cue" && contains(cueRequired, currentH2) {
				if _, ok := wrongBlock[currentH2]; !ok {
					wrongBlock[currentH2] = tag
				}
			}
		}
	}

	if !foundH1 {
		errs = append(errs, "missing H1 title")
	}

	for _, section := range forbidden {
		if foundSections[section] {
			errs = append(errs, fmt.Sprintf("section %q is not allowed for %s specs", section, kind))
		}
	}

	for _, section := range required {
		if foundSections[section] {
			continue
		}
		if similar := findSimilarSection(foundSections, section); similar != "" {
			errs = append(errs, fmt.Sprintf("missing required section %q (did you mean %q?)", section, similar))
		} else {
			errs = append(errs, fmt.Sprintf("missing required section: %s", section))
		}
	}

	for _, section := range cueRequired {
		if !foundSections[section] || sectionsWithCue[section] {
			continue
		}
		if tag, ok := wrongBlock[section]; ok {
			errs = append(errs, fmt.Sprintf("section %q uses wrong block tag %q, expected \"cue\"", section, tag))
		} else {
			errs = append(errs, fmt.Sprintf("section %q missing ```cue block", section))
		}
	}

	return errs
}

// findSimilarSection looks for a present header that is plausibly a typo or
// rename of the required one: either the two names share at least half of the
// required name's words, or a fixed synonym applies.
func findSimilarSection(found map[string]bool, target string) string {
	targetWords := strings.Fields(strings.ToLower(target))

	for section := range found {
		sectionWords := map[string]bool{}
		for _, w := range strings.Fields(strings.ToLower(section)) {
			sectionWords[w] = true
		}

		common := 0
		for _, w := range targetWords {
			if sectionWords[w] {
				common++
			}
		}
		if common > 0 && common >= len(targetWords)/2 {
			return section
		}

		// Known renames seen in older spec revisions.
		switch {
		case target == "State Machine" && strings.Contains(section, "Machine"),
			target == "Context Schema" && strings.Contains(section, "Context"),
			target == "Guards" && strings.Contains(section, "Guard"),
			target == "Actions" && strings.Contains(section, "Action"):
			return section
		}
	}

	return ""
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
