// Package pipeline drives the build: it discovers spec documents, validates
// them, runs the external tools, and writes the generated artifact tree.
package pipeline

import (
	"log/slog"
	"sync"

	"github.com/starford/runespec/internal/storage"
	"github.com/starford/runespec/internal/toolchain"
)

// SpecPattern matches spec documents anywhere under the input tree.
const SpecPattern = "**/*.spec.md"

// Notifier receives build lifecycle events. The SSE broker satisfies this
// through a small adapter; a nil notifier disables events.
type Notifier func(event, path string)

// Pipeline holds the wiring for one build run.
type Pipeline struct {
	specs  *storage.FS
	out    *storage.FS
	schema toolchain.SchemaTool
	model  toolchain.ModelTool
	log    *slog.Logger
	notify Notifier

	workers int

	// Tool-missing conditions are reported once per run, not per file.
	cueMissing   sync.Once
	quintMissing sync.Once
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds the number of documents processed concurrently.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithNotifier installs a build event callback.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) {
		p.notify = n
	}
}

// New builds a Pipeline over the given trees and tools.
func New(specs, out *storage.FS, schema toolchain.SchemaTool, model toolchain.ModelTool, log *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		specs:   specs,
		out:     out,
		schema:  schema,
		model:   model,
		log:     log,
		workers: 4,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	return p
}

func (p *Pipeline) publish(event, path string) {
	if p.notify != nil {
		p.notify(event, path)
	}
}
