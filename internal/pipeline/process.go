package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/starford/runespec/internal/apperr"
	"github.com/starford/runespec/internal/codegen"
	"github.com/starford/runespec/internal/spec"
	"github.com/starford/runespec/internal/vectors"
)

// Component derives the component slug from a spec path.
func Component(relPath string) string {
	return spec.ComponentName(relPath)
}

// Process runs the full per-document pipeline for one spec file. Validation
// findings are warnings and never stop artifact generation; only an I/O
// failure on the document itself aborts.
func (p *Pipeline) Process(ctx context.Context, relPath string) FileReport {
	report := FileReport{Path: relPath, Component: Component(relPath)}

	raw, err := p.specs.Read(relPath)
	if err != nil {
		report.Err = fmt.Errorf("pipeline: %s: %w", relPath, err)
		p.publish("spec.failed", relPath)
		return report
	}
	content := string(raw)

	fm, body := spec.ParseFrontmatter(content)
	report.Kind = fm.Kind.String()

	// Structural validation. Schema documents carry no state machine and
	// are exempt.
	if fm.Kind != spec.Schema {
		for _, e := range spec.ValidateStructure(body, fm.Kind) {
			report.Warnings = append(report.Warnings, e)
			p.log.Warn("spec validation",
				slog.String("spec", relPath), slog.String("error", e))
		}
	}

	outDir := filepath.Join(filepath.Dir(relPath), report.Component)

	itfPath := p.processQuint(ctx, content, outDir, &report)
	p.processVectors(content, outDir, itfPath, &report)
	p.processTypes(content, outDir, &report)
	p.processRust(content, fm.Kind, outDir, &report)
	p.processCue(ctx, content, outDir, &report)

	if len(report.Warnings) > 0 {
		p.publish("spec.failed", relPath)
	} else {
		p.publish("spec.validated", relPath)
	}
	if len(report.Artifacts) > 0 {
		p.publish("artifacts.generated", relPath)
	}
	return report
}

// processQuint writes the verbatim model file, typechecks it, and simulates
// it into an ITF trace. Returns the trace path when one was produced.
func (p *Pipeline) processQuint(ctx context.Context, content, outDir string, report *FileReport) string {
	quintCode, ok := spec.ExtractQuintBlock(content)
	if !ok {
		return ""
	}

	for _, w := range spec.ValidateQuintModel(report.Component, quintCode) {
		report.Warnings = append(report.Warnings, w)
		p.log.Warn("quint model", slog.String("spec", report.Path), slog.String("warning", w))
	}

	qntPath := filepath.Join(outDir, "quint", report.Component+".qnt")
	if err := p.out.Write(qntPath, []byte(quintCode)); err != nil {
		p.log.Warn("write quint file", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return ""
	}
	report.Artifacts = append(report.Artifacts, qntPath)

	if err := p.model.Typecheck(ctx, filepath.Join(p.out.Root(), qntPath)); err != nil {
		if errors.Is(err, apperr.ErrToolUnavailable) {
			p.quintMissing.Do(func() {
				p.log.Info("quint not found, skipping typecheck and traces")
			})
			return ""
		}
		report.Warnings = append(report.Warnings, fmt.Sprintf("quint typecheck failed: %v", err))
		p.log.Warn("quint typecheck", slog.String("spec", report.Path), slog.String("error", err.Error()))
	}

	itfPath := filepath.Join(outDir, "test-vectors", report.Component+".itf.json")
	// The trace target directory must exist before quint writes into it.
	if err := p.out.MkdirAll(filepath.Dir(itfPath)); err != nil {
		p.log.Warn("create vectors dir", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return ""
	}
	if err := p.model.Trace(ctx, filepath.Join(p.out.Root(), qntPath), filepath.Join(p.out.Root(), itfPath)); err != nil {
		if !errors.Is(err, apperr.ErrToolUnavailable) {
			p.log.Warn("itf trace", slog.String("spec", report.Path), slog.String("error", err.Error()))
		}
		return ""
	}
	report.Artifacts = append(report.Artifacts, itfPath)
	return itfPath
}

// processVectors merges hand-authored scenarios with the ITF trace into the
// unified corpus.
func (p *Pipeline) processVectors(content, outDir, itfPath string, report *FileReport) {
	block, hasBlock := spec.ExtractTestVectors(content)
	if !hasBlock && itfPath == "" {
		return
	}

	var yamlScenarios []vectors.Scenario
	if hasBlock {
		yamlScenarios = vectors.ParseScenarios(block)
	}

	var itfScenarios []vectors.Scenario
	if itfPath != "" {
		if data, err := p.out.Read(itfPath); err == nil {
			itfScenarios = vectors.ParseTrace(report.Component, data)
		}
	}

	unified := vectors.Unify(report.Component, yamlScenarios, itfScenarios)
	data, err := marshalIndent(unified)
	if err != nil {
		p.log.Warn("unified vectors", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return
	}

	path := filepath.Join(outDir, "test-vectors", report.Component+".unified.json")
	if err := p.out.Write(path, data); err != nil {
		p.log.Warn("write unified vectors", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return
	}
	report.Artifacts = append(report.Artifacts, path)
}

// processTypes emits the TypeScript declaration file and property metadata
// when the document declares a Component API interface.
func (p *Pipeline) processTypes(content, outDir string, report *FileReport) {
	ts, ok := spec.ExtractComponentAPI(content)
	if !ok {
		return
	}

	typesPath := filepath.Join(outDir, report.Component+".types.ts")
	if err := p.out.Write(typesPath, []byte(codegen.GenerateTypesFile(report.Component, ts))); err != nil {
		p.log.Warn("write types", slog.String("spec", report.Path), slog.String("error", err.Error()))
	} else {
		report.Artifacts = append(report.Artifacts, typesPath)
	}

	meta := codegen.ParseInterface(report.Component, ts)
	data, err := codegen.MarshalMeta(meta)
	if err != nil {
		p.log.Warn("marshal meta", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return
	}
	metaPath := filepath.Join(outDir, report.Component+".meta.json")
	if err := p.out.Write(metaPath, data); err != nil {
		p.log.Warn("write meta", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return
	}
	report.Artifacts = append(report.Artifacts, metaPath)
}

// processRust emits the conformance test for every document, plus the
// scaffold and its regenerated tests for primitive components. The scaffold
// is written once and never overwritten.
func (p *Pipeline) processRust(content string, kind spec.Kind, outDir string, report *FileReport) {
	confPath := filepath.Join(outDir, "rust-tests", report.Component+"_conformance.rs")
	conf := codegen.GenerateRustConformanceTest(report.Component)
	if err := p.out.Write(confPath, []byte(conf)); err != nil {
		p.log.Warn("write conformance test", slog.String("spec", report.Path), slog.String("error", err.Error()))
	} else {
		report.Artifacts = append(report.Artifacts, confPath)
	}

	if kind != spec.Primitive {
		return
	}

	scaffoldPath := filepath.Join(outDir, "rust-scaffold", "src", "main.rs")
	scaffold := codegen.GenerateRustScaffold(report.Component, content)
	wrote, err := p.out.WriteIfAbsent(scaffoldPath, []byte(scaffold))
	if err != nil {
		p.log.Warn("write scaffold", slog.String("spec", report.Path), slog.String("error", err.Error()))
	} else if wrote {
		report.Artifacts = append(report.Artifacts, scaffoldPath)
	}

	testsPath := filepath.Join(outDir, "rust-scaffold", "src", "tests.rs")
	tests := codegen.GenerateRustTests(report.Component, content)
	if err := p.out.Write(testsPath, []byte(tests)); err != nil {
		p.log.Warn("write rust tests", slog.String("spec", report.Path), slog.String("error", err.Error()))
	} else {
		report.Artifacts = append(report.Artifacts, testsPath)
	}
}

// processCue combines the document's cue blocks into one file, exports it to
// JSON, and cross-references its events against the quint model.
func (p *Pipeline) processCue(ctx context.Context, content, outDir string, report *FileReport) {
	blocks := spec.ExtractCueBlocks(content)

	var combined strings.Builder
	fmt.Fprintf(&combined, "// Generated from %s\n", report.Path)
	fmt.Fprintf(&combined, "// Type: %s\n\n", report.Kind)
	var cueOnly strings.Builder
	for _, b := range blocks {
		fmt.Fprintf(&combined, "// == %s ==\n%s\n\n", b.Slug, b.Body)
		cueOnly.WriteString(b.Body)
		cueOnly.WriteString("\n")
	}

	if quintCode, ok := spec.ExtractQuintBlock(content); ok {
		for _, w := range spec.CrossReferenceEvents(cueOnly.String(), quintCode) {
			report.Warnings = append(report.Warnings, w)
			p.log.Warn("cross-reference mismatch",
				slog.String("spec", report.Path), slog.String("warning", w))
		}
	}

	if len(blocks) == 0 {
		return
	}

	cuePath := filepath.Join(outDir, "cue", report.Component+".cue")
	if err := p.out.Write(cuePath, []byte(combined.String())); err != nil {
		p.log.Warn("write cue file", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return
	}
	report.Artifacts = append(report.Artifacts, cuePath)

	out, err := p.schema.ExportJSON(ctx, filepath.Join(p.out.Root(), cuePath))
	if err != nil {
		if errors.Is(err, apperr.ErrToolUnavailable) {
			p.cueMissing.Do(func() {
				p.log.Info("cue not found, skipping JSON export")
			})
			return
		}
		report.Warnings = append(report.Warnings, fmt.Sprintf("cue export failed: %v", err))
		p.log.Warn("cue export", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" || trimmed == "{}" {
		p.log.Debug("skipping empty JSON export", slog.String("spec", report.Path))
		return
	}

	jsonPath := filepath.Join(outDir, report.Component+".json")
	if err := p.out.Write(jsonPath, out); err != nil {
		p.log.Warn("write exported JSON", slog.String("spec", report.Path), slog.String("error", err.Error()))
		return
	}
	report.Artifacts = append(report.Artifacts, jsonPath)
}
