package catalog

import (
	"log/slog"
	"time"

	"github.com/starford/runespec/internal/checksum"
	"github.com/starford/runespec/internal/manifest"
	"github.com/starford/runespec/internal/spec"
	"github.com/starford/runespec/internal/storage"
)

// specPattern matches spec documents anywhere under the tree root.
const specPattern = "**/*.spec.md"

// Sync walks the spec tree and brings the catalog up to date:
//   - new/changed documents are parsed and upserted
//   - documents removed from disk are deleted from the catalog
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List(specPattern)
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteComponent(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses a spec document and upserts it into the catalog. The
// stored warnings are the structural diagnostics, so the catalog doubles as
// a validation report.
func indexFile(db *DB, path string, data []byte) error {
	content := string(data)
	fm, body := spec.ParseFrontmatter(content)

	var warnings []string
	if fm.Kind != spec.Schema {
		warnings = spec.ValidateStructure(body, fm.Kind)
	}

	row := ComponentRow{
		Path:        path,
		Name:        spec.ComponentName(path),
		Kind:        fm.Kind.String(),
		Description: fm.Description,
		Events:      manifest.QuintEvents(content),
		Warnings:    warnings,
		Checksum:    checksum.Sum(data),
		UpdatedAt:   time.Now().UTC(),
	}
	return db.UpsertComponent(row, body)
}
