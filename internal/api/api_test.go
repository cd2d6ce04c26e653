package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/runespec/internal/catalog"
	"github.com/starford/runespec/internal/pipeline"
	"github.com/starford/runespec/internal/testutil"
)

// testEnv sets up a temp spec dir, output dir, catalog DB, service, and
// router. authToken == "" means auth disabled.
func testEnv(t *testing.T, authToken string) (*Service, http.Handler) {
	t.Helper()

	_, specs := testutil.TestWorkspace(t)
	_, output := testutil.TestWorkspace(t)
	db := testutil.TestDB(t)

	svc := NewService(specs, output, db)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return svc, router
}

// seedComponent writes a spec file and a matching catalog row.
func seedComponent(t *testing.T, svc *Service, name, kind, content string) string {
	t.Helper()
	path := filepath.Join(name, name+".spec.md")
	if err := svc.specs.Write(path, []byte(content)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	row := catalog.ComponentRow{
		Path:      path,
		Name:      name,
		Kind:      kind,
		Events:    []string{"toggle"},
		Warnings:  []string{},
		Checksum:  "cs-" + name,
		UpdatedAt: time.Now().UTC(),
	}
	if err := svc.db.UpsertComponent(row, content); err != nil {
		t.Fatalf("UpsertComponent: %v", err)
	}
	return path
}

func TestListComponents(t *testing.T) {
	svc, router := testEnv(t, "")
	seedComponent(t, svc, "button", "primitive", "# Button Specification")
	seedComponent(t, svc, "tabs", "compound", "# Tabs Specification")

	req := httptest.NewRequest(http.MethodGet, "/components", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp ComponentListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	if len(resp.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(resp.Components))
	}
	if resp.Components[0].Name != "button" {
		t.Errorf("first component = %q, want button", resp.Components[0].Name)
	}
}

func TestListComponents_KindFilter(t *testing.T) {
	svc, router := testEnv(t, "")
	seedComponent(t, svc, "button", "primitive", "# Button Specification")
	seedComponent(t, svc, "tabs", "compound", "# Tabs Specification")

	req := httptest.NewRequest(http.MethodGet, "/components?kind=compound", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp ComponentListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Total != 1 || len(resp.Components) != 1 {
		t.Fatalf("filtered total = %d, items = %d", resp.Total, len(resp.Components))
	}
	if resp.Components[0].Kind != "compound" {
		t.Errorf("kind = %q, want compound", resp.Components[0].Kind)
	}
}

func TestGetComponent_ByName(t *testing.T) {
	svc, router := testEnv(t, "")
	seedComponent(t, svc, "switch", "primitive", "# Switch Specification\n\nBody.")

	req := httptest.NewRequest(http.MethodGet, "/components/switch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var detail ComponentDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if detail.Name != "switch" {
		t.Errorf("name = %q, want switch", detail.Name)
	}
	if detail.Kind != "primitive" {
		t.Errorf("kind = %q, want primitive", detail.Kind)
	}
	if detail.Content != "# Switch Specification\n\nBody." {
		t.Errorf("content = %q", detail.Content)
	}
	if len(detail.Events) != 1 || detail.Events[0] != "toggle" {
		t.Errorf("events = %v", detail.Events)
	}
}

func TestGetComponent_BySpecPath(t *testing.T) {
	svc, router := testEnv(t, "")
	seedComponent(t, svc, "switch", "primitive", "# Switch Specification")

	req := httptest.NewRequest(http.MethodGet, "/components/switch%2Fswitch.spec.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var detail ComponentDetail
	if err := json.Unmarshal(w.Body.Bytes(), &detail); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if detail.Path != filepath.Join("switch", "switch.spec.md") {
		t.Errorf("path = %q", detail.Path)
	}
}

func TestGetComponent_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/components/ghost", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSearch_RequiresQuery(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSearch_ReturnsHits(t *testing.T) {
	svc, router := testEnv(t, "")
	seedComponent(t, svc, "checkbox", "primitive", "A tri-state checkbox with indeterminate support.")

	req := httptest.NewRequest(http.MethodGet, "/search?q=indeterminate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []SearchResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].Name != "checkbox" {
		t.Errorf("result name = %q", resp.Results[0].Name)
	}
}

func TestManifest_NotBuiltYet(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/manifest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestManifest_ServesRawJSON(t *testing.T) {
	svc, router := testEnv(t, "")
	manifest := `{"version": "1.0", "components": {}}`
	if err := svc.output.Write("interactions.json", []byte(manifest)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/manifest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != manifest {
		t.Errorf("body = %q, want raw manifest", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
}

func TestReport_LifeCycle(t *testing.T) {
	svc, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/report", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status before build = %d, want 404", w.Code)
	}

	svc.SetReport(&pipeline.Report{Processed: 3, Skipped: 1, Warnings: 2})

	req = httptest.NewRequest(http.MethodGet, "/report", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status after build = %d", w.Code)
	}

	var report pipeline.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Processed != 3 || report.Skipped != 1 || report.Warnings != 2 {
		t.Errorf("report = %+v", report)
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc, router := testEnv(t, "secret-token")
	seedComponent(t, svc, "button", "primitive", "# Button Specification")

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/components", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}

	// Wrong token.
	req = httptest.NewRequest(http.MethodGet, "/components", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong token = %d, want 401", w.Code)
	}

	// Valid token.
	req = httptest.NewRequest(http.MethodGet, "/components", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status with valid token = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestAuthDisabledPassesThrough(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/components", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with auth disabled", w.Code)
	}
}

func TestServiceGetComponent_ContextPassthrough(t *testing.T) {
	svc, _ := testEnv(t, "")
	seedComponent(t, svc, "button", "primitive", "# Button Specification")

	detail, err := svc.GetComponent(context.Background(), "button")
	if err != nil {
		t.Fatalf("GetComponent: %v", err)
	}
	if detail.Checksum != "cs-button" {
		t.Errorf("checksum = %q", detail.Checksum)
	}
}
