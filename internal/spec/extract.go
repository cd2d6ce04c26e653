package spec

import (
	"fmt"
	"strings"
)

// Block is one fenced ```cue block keyed by the slug of the header above it.
type Block struct {
	Slug string
	Body string
}

// Slugify lowercases a header and replaces spaces with underscores, producing
// the key used for extracted blocks and output file names.
func Slugify(header string) string {
	return strings.ReplaceAll(strings.ToLower(header), " ", "_")
}

// ComponentName derives the component slug from a spec file path by
// stripping the .spec.md suffix and any legacy .sudo infix.
func ComponentName(path string) string {
	name := path
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, ".spec.md")
	return strings.ReplaceAll(name, ".sudo", "")
}

// ExtractCueBlocks returns every ```cue block in document order, each keyed by
// the slug of the most recent H2/H3 header, or "block_<n>" when no header
// precedes it. All blocks are retained, including repeats under one header.
func ExtractCueBlocks(content string) []Block {
	var blocks []Block
	var buf strings.Builder
	inBlock := false
	lastHeader := ""
	index := 0

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") || strings.HasPrefix(line, "### ") {
			lastHeader = strings.TrimSpace(strings.TrimLeft(line, "#"))
		}

		switch {
		case strings.TrimSpace(line) == "```cue":
			inBlock = true
			buf.Reset()

		case inBlock && strings.TrimSpace(line) == "```":
			inBlock = false
			slug := Slugify(lastHeader)
			if lastHeader == "" {
				slug = fmt.Sprintf("block_%d", index)
			}
			blocks = append(blocks, Block{Slug: slug, Body: strings.TrimSpace(buf.String())})
			index++

		case inBlock:
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	return blocks
}

// ExtractQuintBlock returns the trimmed body of the first ```quint block, or
// false when the document has none. An unterminated fence yields no result.
func ExtractQuintBlock(content string) (string, bool) {
	return firstFencedBlock(content, "```quint")
}

// ExtractTestVectors returns the trimmed body of the first ```test-vectors
// block, or false when the document has none.
func ExtractTestVectors(content string) (string, bool) {
	return firstFencedBlock(content, "```test-vectors")
}

func firstFencedBlock(content, fence string) (string, bool) {
	var buf strings.Builder
	inBlock := false

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.TrimSpace(line) == fence:
			inBlock = true
			buf.Reset()
		case inBlock && strings.TrimSpace(line) == "```":
			return strings.TrimSpace(buf.String()), true
		case inBlock:
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	return "", false
}

// ExtractComponentAPI returns the first ```typescript (or ```ts) block found
// inside the section literally headed "## Component API". Tracking resets at
// the next H2: a fence still open when the section ends yields no result.
func ExtractComponentAPI(content string) (string, bool) {
	var buf strings.Builder
	inSection := false
	inBlock := false

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "## ") {
			inSection = strings.TrimSpace(strings.TrimPrefix(line, "## ")) == "Component API"
			inBlock = false
			continue
		}
		if !inSection {
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "```typescript" || trimmed == "```ts":
			inBlock = true
			buf.Reset()
		case inBlock && trimmed == "```":
			return strings.TrimSpace(buf.String()), true
		case inBlock:
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	return "", false
}
