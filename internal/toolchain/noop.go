package toolchain

import (
	"context"
	"fmt"

	"github.com/starford/runespec/internal/apperr"
)

// NoopSchemaTool stands in when the cue binary is absent. Every call reports
// apperr.ErrToolUnavailable so the pipeline skips the dependent artifacts.
type NoopSchemaTool struct{}

func (NoopSchemaTool) ExportJSON(ctx context.Context, cueFile string) ([]byte, error) {
	return nil, fmt.Errorf("toolchain: cue export %s: %w", cueFile, apperr.ErrToolUnavailable)
}

func (NoopSchemaTool) Vet(ctx context.Context, cueFile string) error {
	return fmt.Errorf("toolchain: cue vet %s: %w", cueFile, apperr.ErrToolUnavailable)
}

// NoopModelTool stands in when the quint binary is absent.
type NoopModelTool struct{}

func (NoopModelTool) Typecheck(ctx context.Context, quintFile string) error {
	return fmt.Errorf("toolchain: quint typecheck %s: %w", quintFile, apperr.ErrToolUnavailable)
}

func (NoopModelTool) Trace(ctx context.Context, quintFile, itfFile string) error {
	return fmt.Errorf("toolchain: quint run %s: %w", quintFile, apperr.ErrToolUnavailable)
}
