package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/runespec/internal/manifest"
	"github.com/starford/runespec/internal/storage"
)

// Run processes every spec document under the input tree and writes the
// repository-wide interactions manifest. Per-file failures are recorded in
// the report and do not abort the batch.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	files, err := p.specs.List(SpecPattern)
	if err != nil {
		return Report{}, fmt.Errorf("pipeline: discover specs: %w", err)
	}

	var (
		mu      sync.Mutex
		reports []FileReport
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, f := range files {
		g.Go(func() error {
			r := p.Process(gCtx, f.Path)
			mu.Lock()
			reports = append(reports, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	report := Report{Files: reports}
	for _, r := range reports {
		if r.Failed() {
			report.Skipped++
			p.log.Warn("spec skipped",
				slog.String("spec", r.Path), slog.String("error", r.Err.Error()))
			continue
		}
		report.Processed++
		report.Warnings += len(r.Warnings)
	}

	manifestPath, err := p.writeManifest(files)
	if err != nil {
		p.log.Warn("interactions manifest", slog.String("error", err.Error()))
	} else {
		report.ManifestPath = manifestPath
	}

	p.log.Info("build complete",
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
		slog.Int("warnings", report.Warnings))
	return report, nil
}

// writeManifest aggregates interaction entries across all documents into
// interactions.json at the output root.
func (p *Pipeline) writeManifest(files []storage.FileInfo) (string, error) {
	components := make(map[string]manifest.ComponentInteractions)
	for _, f := range files {
		raw, err := p.specs.Read(f.Path)
		if err != nil {
			continue
		}
		if info, ok := manifest.Extract(string(raw)); ok {
			components[Component(f.Path)] = info
		}
	}

	data, err := marshalIndent(manifest.Build(components))
	if err != nil {
		return "", fmt.Errorf("pipeline: marshal manifest: %w", err)
	}
	if err := p.out.Write("interactions.json", data); err != nil {
		return "", err
	}
	return "interactions.json", nil
}
