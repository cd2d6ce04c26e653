// Package toolchain wraps the external cue and quint binaries behind small
// interfaces so the pipeline can run without either tool installed.
package toolchain

import "context"

// SchemaTool evaluates combined cue files.
type SchemaTool interface {
	// ExportJSON evaluates the file and returns its JSON rendering.
	ExportJSON(ctx context.Context, cueFile string) ([]byte, error)
	// Vet checks the file against its constraints.
	Vet(ctx context.Context, cueFile string) error
}

// ModelTool typechecks quint models and simulates them into ITF traces.
type ModelTool interface {
	Typecheck(ctx context.Context, quintFile string) error
	// Trace simulates the model and writes an ITF trace to itfFile.
	Trace(ctx context.Context, quintFile, itfFile string) error
}
