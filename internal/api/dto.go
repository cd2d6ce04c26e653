package api

import (
	"github.com/starford/runespec/internal/catalog"
)

// ComponentListResponse wraps paginated component listings.
type ComponentListResponse struct {
	Components []ComponentListItem `json:"components"`
	Total      int                 `json:"total"`
}

// SearchResult is a single search hit in the API response (aliased from the
// catalog layer).
type SearchResult = catalog.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}
