package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/juliecor/zonal-backend/internal/fetch"
)

func newClient(searchURL, reverseURL string) *Client {
	return &Client{
		SearchEndpoints:  []string{searchURL},
		ReverseEndpoints: []string{reverseURL},
		Fetcher:          &fetch.Client{},
	}
}

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") != "jsonv2" {
			t.Errorf("missing jsonv2 format param")
		}
		if r.URL.Query().Get("q") != "session road" {
			t.Errorf("unexpected query: %s", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`[{"display_name":"Session Road, Baguio","lat":"16.4119","lon":"120.5963","address":{"city":"Baguio","state":"Benguet"}}]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	points, err := c.Search(context.Background(), "session road", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected one result, got %d", len(points))
	}
	if points[0].Lat != 16.4119 || points[0].Lng != 120.5963 {
		t.Fatalf("unexpected coordinates: %+v", points[0])
	}
	if points[0].Address["city"] != "Baguio" {
		t.Fatalf("address components not parsed: %+v", points[0].Address)
	}
}

func TestGeocodeTopNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	_, err := c.GeocodeTop(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReverseSynthesizesDisplayName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("zoom") != "18" {
			t.Errorf("missing zoom param")
		}
		w.Write([]byte(`{"lat":"16.411900","lon":"120.596300","address":{"city":"Baguio"}}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	pt, err := c.Reverse(context.Background(), 16.4119, 120.5963)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.DisplayName != "16.411900, 120.596300" {
		t.Fatalf("expected synthesized display name, got %q", pt.DisplayName)
	}
}

func TestReverseFailedOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	_, err := c.Reverse(context.Background(), 0, 0)
	if !errors.Is(err, ErrReverseFailed) {
		t.Fatalf("expected ErrReverseFailed, got %v", err)
	}
}
