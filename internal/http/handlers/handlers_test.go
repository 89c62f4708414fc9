package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/juliecor/zonal-backend/internal/geocode"
	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/service"
)

type stubGeocoder struct {
	err error
}

func (s *stubGeocoder) Search(context.Context, string, int) ([]models.GeoPoint, error) {
	return nil, s.err
}

func (s *stubGeocoder) GeocodeTop(context.Context, string) (models.GeoPoint, error) {
	return models.GeoPoint{}, s.err
}

func (s *stubGeocoder) Reverse(context.Context, float64, float64) (models.GeoPoint, error) {
	return models.GeoPoint{}, s.err
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthz", h.Healthz)
	r.GET("/api/locate", h.Locate)
	r.GET("/api/facilities", h.Facilities)
	r.POST("/api/highlight", h.Highlight)
	return r
}

func TestHealthz(t *testing.T) {
	h := &Handler{Validator: validator.New()}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	newTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLocateRequiresQueryOrCoordinate(t *testing.T) {
	h := &Handler{Validator: validator.New()}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/locate", nil)
	newTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLocateTextNotFound(t *testing.T) {
	h := &Handler{
		Locator:   &service.Locator{Geocoder: &stubGeocoder{err: geocode.ErrNotFound}},
		Validator: validator.New(),
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/locate?q=nowhere", nil)
	newTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "NOT_FOUND") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestFacilitiesRejectsBadCoordinate(t *testing.T) {
	h := &Handler{Validator: validator.New()}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/facilities?lat=999&lng=120.59", nil)
	newTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHighlightRejectsIncompleteRecord(t *testing.T) {
	h := &Handler{Validator: validator.New()}
	w := httptest.NewRecorder()
	body := strings.NewReader(`{"province":"Benguet","vicinity":"Session Rd"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/highlight", body)
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing municipality, got %d", w.Code)
	}
}
