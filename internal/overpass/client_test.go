package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/juliecor/zonal-backend/internal/fetch"
	"github.com/juliecor/zonal-backend/internal/models"
)

func TestQueryPostsFormData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if !strings.Contains(r.PostForm.Get("data"), "out center") {
			t.Errorf("query not passed through: %q", r.PostForm.Get("data"))
		}
		w.Write([]byte(`{"elements":[{"type":"node","id":7,"lat":16.41,"lon":120.59,"tags":{"amenity":"bank"}}]}`))
	}))
	defer srv.Close()

	c := &Client{Endpoints: []string{srv.URL}, Fetcher: &fetch.Client{}}
	els, err := c.Query(context.Background(), TagValueQuery("shop", "mall", 1000, 16.41, 120.59))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(els) != 1 || els[0].ID != 7 || els[0].Tags["amenity"] != "bank" {
		t.Fatalf("unexpected elements: %+v", els)
	}
}

func TestQueryFallsBackAcrossEndpoints(t *testing.T) {
	busy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer busy.Close()
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[]}`))
	}))
	defer ok.Close()

	c := &Client{Endpoints: []string{busy.URL, ok.URL}, Fetcher: &fetch.Client{}}
	if _, err := c.Query(context.Background(), "out;"); err != nil {
		t.Fatalf("expected fallback to succeed, got %v", err)
	}
}

func TestDedupePreservesFirstSeenOrder(t *testing.T) {
	els := []models.Element{
		{Type: "node", ID: 1},
		{Type: "way", ID: 1},
		{Type: "node", ID: 2},
		{Type: "node", ID: 1},
		{Type: "way", ID: 1},
	}
	got := Dedupe(els)
	if len(got) != 3 {
		t.Fatalf("expected 3 unique elements, got %d", len(got))
	}
	if got[0].Type != "node" || got[0].ID != 1 || got[1].Type != "way" || got[2].ID != 2 {
		t.Fatalf("order not preserved: %+v", got)
	}
}

func TestNamedWaysQueryEscapesName(t *testing.T) {
	q := NamedWaysQuery("Gen. Luna Rd", 25000, 16.41, 120.59)
	if !strings.Contains(q, `Gen\\. Luna Rd`) {
		t.Fatalf("regex metacharacters not escaped: %q", q)
	}
	if !strings.Contains(q, "out geom") {
		t.Fatalf("expected geometry output shaping: %q", q)
	}
}

func TestJunctionNodesQueryUsesSetOps(t *testing.T) {
	q := JunctionNodesQuery("Session Rd", "Magsaysay Ave", 25000, 16.41, 120.59)
	for _, want := range []string{"->.main", "->.cross", "node(w.main)(w.cross)"} {
		if !strings.Contains(q, want) {
			t.Fatalf("missing %q in %q", want, q)
		}
	}
}
