package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/starford/runespec/internal/apperr"
	"github.com/starford/runespec/internal/catalog"
	"github.com/starford/runespec/internal/pipeline"
	"github.com/starford/runespec/internal/spec"
	"github.com/starford/runespec/internal/storage"
)

// Service coordinates spec storage, build output, and the catalog for the
// API layer.
type Service struct {
	specs  storage.Provider
	output storage.Provider
	db     catalog.ComponentIndex

	mu     sync.RWMutex
	report *pipeline.Report
}

// NewService creates a new API service.
func NewService(specs, output storage.Provider, db catalog.ComponentIndex) *Service {
	return &Service{specs: specs, output: output, db: db}
}

// ComponentDetail is the full representation of a spec component.
type ComponentDetail struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Description string    `json:"description,omitempty"`
	Events      []string  `json:"events"`
	Warnings    []string  `json:"warnings"`
	Checksum    string    `json:"checksum"`
	Content     string    `json:"content"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ComponentListItem is a lightweight item in a list response.
type ComponentListItem struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetComponent looks up a component by name or spec path and enriches it
// with the source document from storage.
func (s *Service) GetComponent(_ context.Context, ref string) (*ComponentDetail, error) {
	name := ref
	if strings.Contains(ref, "/") || strings.HasSuffix(ref, ".spec.md") {
		name = spec.ComponentName(ref)
	}
	row, err := s.db.GetComponent(name)
	if err != nil {
		return nil, err
	}
	data, err := s.specs.Read(row.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("api: read spec %s: %w", row.Path, err)
	}
	events := row.Events
	if events == nil {
		events = []string{}
	}
	warnings := row.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &ComponentDetail{
		Path:        row.Path,
		Name:        row.Name,
		Kind:        row.Kind,
		Description: row.Description,
		Events:      events,
		Warnings:    warnings,
		Checksum:    row.Checksum,
		Content:     string(data),
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// ListComponents returns paginated components with optional kind filter.
func (s *Service) ListComponents(_ context.Context, limit, offset int, kind, sort string) ([]ComponentListItem, int, error) {
	rows, total, err := s.db.ListComponents(limit, offset, kind, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]ComponentListItem, len(rows))
	for i, r := range rows {
		items[i] = ComponentListItem{
			Path:      r.Path,
			Name:      r.Name,
			Kind:      r.Kind,
			Checksum:  r.Checksum,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates to the catalog.
func (s *Service) Search(_ context.Context, query string, limit int) ([]catalog.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Manifest returns the repository-wide interactions manifest produced by the
// last build, as raw JSON.
func (s *Service) Manifest(_ context.Context) (json.RawMessage, error) {
	data, err := s.output.Read("interactions.json")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("api: read manifest: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetReport records the most recent build report for serving.
func (s *Service) SetReport(r *pipeline.Report) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

// Report returns the most recent build report, or ErrNotFound if no build
// has run yet.
func (s *Service) Report(_ context.Context) (*pipeline.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, apperr.ErrNotFound
	}
	return s.report, nil
}
