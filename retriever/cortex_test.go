package retriever

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tenwave/medassist/common/httpx"
	"github.com/tenwave/medassist/common/logger"
	"github.com/tenwave/medassist/schema"
)

func init() {
	logger.DisableKlog()
}

func newCortexServer(t *testing.T, capture *cortexSearchRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := cortexSearchResponse{Results: []cortexResult{
			{Chunk: "Admission procedure text", RelativePath: "admissions/handbook.pdf", Category: "Admissions", Score: 0.91},
			{Chunk: "More admission notes", RelativePath: "admissions/handbook.pdf", Category: "Admissions", Score: 0.85},
		}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestCortexSearchAllCategoryOmitsFilter(t *testing.T) {
	var captured cortexSearchRequest
	srv := newCortexServer(t, &captured)
	defer srv.Close()

	r := &CortexRetriever{Endpoint: srv.URL, Client: httpx.NewFromConfig(nil)}
	results, err := r.Search(context.Background(), "admission steps", schema.SearchOptions{Category: "ALL", Limit: 5})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if captured.Filter != nil {
		t.Errorf("expected no filter for ALL, got %v", captured.Filter)
	}
	if captured.Limit != 5 {
		t.Errorf("expected limit 5, got %d", captured.Limit)
	}
	if len(captured.Columns) != 3 {
		t.Errorf("expected 3 columns, got %v", captured.Columns)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RelativePath != "admissions/handbook.pdf" {
		t.Errorf("unexpected relative path %q", results[0].RelativePath)
	}
}

func TestCortexSearchCategoryFilter(t *testing.T) {
	var captured cortexSearchRequest
	srv := newCortexServer(t, &captured)
	defer srv.Close()

	r := &CortexRetriever{Endpoint: srv.URL, Client: httpx.NewFromConfig(nil)}
	if _, err := r.Search(context.Background(), "bed policy", schema.SearchOptions{Category: "Wards", Limit: 3}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	eq, ok := captured.Filter["@eq"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected @eq filter, got %v", captured.Filter)
	}
	if eq["category"] != "Wards" {
		t.Errorf("expected category Wards, got %v", eq["category"])
	}
}

func TestCortexSearchDefaultLimit(t *testing.T) {
	var captured cortexSearchRequest
	srv := newCortexServer(t, &captured)
	defer srv.Close()

	r := &CortexRetriever{Endpoint: srv.URL, Client: httpx.NewFromConfig(nil)}
	if _, err := r.Search(context.Background(), "q", schema.SearchOptions{}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if captured.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", captured.Limit)
	}
}

func TestCortexSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	}))
	defer srv.Close()

	r := &CortexRetriever{Endpoint: srv.URL, Client: httpx.NewFromConfig(nil)}
	if _, err := r.Search(context.Background(), "q", schema.SearchOptions{}); err == nil {
		t.Fatal("expected error from 4xx response")
	}
}

func TestCortexSearchUnconfigured(t *testing.T) {
	r := &CortexRetriever{}
	if _, err := r.Search(context.Background(), "q", schema.SearchOptions{}); err == nil {
		t.Fatal("expected error when endpoint missing")
	}
}
