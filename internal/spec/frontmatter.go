package spec

import "strings"

// ParseFrontmatter strips the optional ----delimited header from content and
// returns the parsed metadata along with the remaining body.
//
// Only the fixed keys "type:" and "description:" are recognized; the header is
// deliberately not parsed as general YAML. When the opening delimiter is
// missing, or no closing delimiter exists, the whole content is returned as
// body with default metadata (primitive kind).
func ParseFrontmatter(content string) (Frontmatter, string) {
	fm := Frontmatter{Kind: Primitive}

	trimmed := strings.TrimLeft(content, "\n\r \t")
	if !strings.HasPrefix(trimmed, "---") {
		return fm, trimmed
	}

	rest := trimmed[len("---"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, trimmed
	}

	header := rest[:end]
	body := rest[end+len("\n---"):]

	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "type:"):
			fm.Kind = KindFromString(strings.TrimSpace(strings.TrimPrefix(line, "type:")))
		case strings.HasPrefix(line, "description:"):
			fm.Description = strings.TrimSpace(strings.TrimPrefix(line, "description:"))
		}
	}

	return fm, body
}
