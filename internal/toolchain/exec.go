package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/starford/runespec/internal/apperr"
)

const defaultTimeout = 2 * time.Minute

// maxSamples bounds the simulation length when generating traces.
const maxSamples = 20

// ExecSchemaTool shells out to the cue binary.
type ExecSchemaTool struct {
	bin     string
	timeout time.Duration
}

// NewExecSchemaTool resolves the cue binary on PATH. A missing binary is
// reported as apperr.ErrToolUnavailable so callers can degrade gracefully.
func NewExecSchemaTool(bin string) (*ExecSchemaTool, error) {
	if bin == "" {
		bin = "cue"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("toolchain: %s: %w", bin, apperr.ErrToolUnavailable)
	}
	return &ExecSchemaTool{bin: path, timeout: defaultTimeout}, nil
}

func (t *ExecSchemaTool) ExportJSON(ctx context.Context, cueFile string) ([]byte, error) {
	out, err := run(ctx, t.timeout, t.bin, "export", "--out", "json", cueFile)
	if err != nil {
		return nil, fmt.Errorf("toolchain: cue export %s: %w", cueFile, err)
	}
	return out, nil
}

func (t *ExecSchemaTool) Vet(ctx context.Context, cueFile string) error {
	if _, err := run(ctx, t.timeout, t.bin, "vet", cueFile); err != nil {
		return fmt.Errorf("toolchain: cue vet %s: %w", cueFile, err)
	}
	return nil
}

// ExecModelTool shells out to the quint binary.
type ExecModelTool struct {
	bin     string
	timeout time.Duration
}

// NewExecModelTool resolves the quint binary on PATH.
func NewExecModelTool(bin string) (*ExecModelTool, error) {
	if bin == "" {
		bin = "quint"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("toolchain: %s: %w", bin, apperr.ErrToolUnavailable)
	}
	return &ExecModelTool{bin: path, timeout: defaultTimeout}, nil
}

func (t *ExecModelTool) Typecheck(ctx context.Context, quintFile string) error {
	if _, err := run(ctx, t.timeout, t.bin, "typecheck", quintFile); err != nil {
		return fmt.Errorf("toolchain: quint typecheck %s: %w", quintFile, err)
	}
	return nil
}

func (t *ExecModelTool) Trace(ctx context.Context, quintFile, itfFile string) error {
	args := []string{"run", quintFile, fmt.Sprintf("--max-samples=%d", maxSamples), "--out-itf", itfFile}
	if _, err := run(ctx, t.timeout, t.bin, args...); err != nil {
		return fmt.Errorf("toolchain: quint run %s: %w", quintFile, err)
	}
	return nil
}

// run executes the command and returns stdout. On a non-zero exit the first
// stderr line becomes the error text.
func run(ctx context.Context, timeout time.Duration, bin string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if line := firstLine(stderr.String()); line != "" {
			return nil, fmt.Errorf("%s: %w", line, err)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
