package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lvonguyen/intelgraph/internal/analysis"
	"github.com/lvonguyen/intelgraph/internal/config"
	"github.com/lvonguyen/intelgraph/internal/observability"
	"github.com/lvonguyen/intelgraph/internal/store"
)

var testMetrics = observability.NewMetrics()

func testServer(t *testing.T) *server {
	t.Helper()
	cfg := config.DefaultConfig()
	engine, err := analysis.NewEngine(cfg.Analysis, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &server{
		engine:  engine,
		cache:   store.New(cfg.Redis, nil),
		metrics: testMetrics,
	}
}

// TestHandleAnalyze_ReturnsBundle verifies a posted batch yields the full
// artifact bundle.
func TestHandleAnalyze_ReturnsBundle(t *testing.T) {
	body, err := json.Marshal(analysis.SampleBatch())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	testServer(t).handleAnalyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result analysis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("response should be a result bundle: %v", err)
	}
	if len(result.ActorProfiles) == 0 {
		t.Error("bundle should carry actor profiles for the sample batch")
	}
	if result.Graph.NodeCount == 0 {
		t.Error("bundle should carry a non-empty graph for the sample batch")
	}
}

// TestHandleAnalyze_InvalidBody verifies malformed JSON is a 400.
func TestHandleAnalyze_InvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	testServer(t).handleAnalyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandleGraphExport_Shape verifies the export endpoint returns the
// node-list/edge-list pair.
func TestHandleGraphExport_Shape(t *testing.T) {
	body, err := json.Marshal(analysis.SampleBatch())
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/graph/export", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	testServer(t).handleGraphExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var export struct {
		Nodes     []map[string]string `json:"nodes"`
		Edges     []map[string]string `json:"edges"`
		NodeCount int                 `json:"node_count"`
		EdgeCount int                 `json:"edge_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &export); err != nil {
		t.Fatalf("response should be a graph export: %v", err)
	}
	if export.NodeCount != len(export.Nodes) {
		t.Errorf("node_count = %d but nodes = %d", export.NodeCount, len(export.Nodes))
	}
	if export.EdgeCount == 0 {
		t.Error("sample batch should produce edges")
	}
}

// TestHandleTaxonomyRules verifies the rule listing endpoint.
func TestHandleTaxonomyRules(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/taxonomy/rules", nil)
	rec := httptest.NewRecorder()
	testServer(t).handleTaxonomyRules(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count == 0 {
		t.Error("default rule table should not be empty")
	}
}

// TestHandleHealth verifies the health endpoint reports the version.
func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	testServer(t).handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", resp["status"])
	}
}
