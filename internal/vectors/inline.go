package vectors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseInlineObject converts an inline { key: value, ... } object into a JSON
// value. This is a single-pass tokenizer, not a YAML parser: outside string
// literals, any identifier-shaped run immediately followed by ':' is quoted
// as a JSON key; text inside "..." passes through unchanged; numbers, true,
// false, and already-quoted strings pass through as-is.
func ParseInlineObject(s string) (any, error) {
	compact := strings.NewReplacer("{ ", "{", " }", "}", ": ", ":").Replace(s)

	var out strings.Builder
	runes := []rune(compact)
	inString := false

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			inString = !inString
			out.WriteRune(c)

		case !inString && (isAlpha(c) || c == '_'):
			j := i + 1
			for j < len(runes) && (isAlnum(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			if j < len(runes) && runes[j] == ':' {
				out.WriteByte('"')
				out.WriteString(word)
				out.WriteByte('"')
			} else {
				out.WriteString(word)
			}
			i = j - 1

		default:
			out.WriteRune(c)
		}
	}

	var v any
	if err := json.Unmarshal([]byte(out.String()), &v); err != nil {
		return nil, fmt.Errorf("vectors: inline object %q: %w", s, err)
	}
	return v, nil
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlnum(r rune) bool {
	return isAlpha(r) || (r >= '0' && r <= '9')
}
