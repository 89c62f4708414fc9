package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/juliecor/zonal-backend/internal/dataset"
	"github.com/juliecor/zonal-backend/internal/fetch"
	"github.com/juliecor/zonal-backend/internal/geocode"
	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/service"
)

type Handler struct {
	Locator   *service.Locator
	Datasets  *dataset.Store
	Validator *validator.Validate
	Logger    zerolog.Logger
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Autocomplete place suggestions
// @Produce json
// @Param q query string true "partial place text"
// @Param limit query int false "max suggestions"
// @Success 200 {array} models.GeoPoint
// @Router /api/suggest [get]
func (h *Handler) Suggest(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "q is required", nil)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	points, err := h.Locator.Suggest(c.Request.Context(), q, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if points == nil {
		points = []models.GeoPoint{}
	}
	c.JSON(http.StatusOK, points)
}

// @Summary Locate zonal-value records
// @Description Locate by free text (q) or by map coordinate (lat, lng)
// @Produce json
// @Param q query string false "free-text query"
// @Param lat query number false "latitude"
// @Param lng query number false "longitude"
// @Success 200 {object} service.LocateResult
// @Failure 404 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /api/locate [get]
func (h *Handler) Locate(c *gin.Context) {
	ctx := c.Request.Context()

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		res, err := h.Locator.LocateText(ctx, q)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "q or lat+lng is required", nil)
		return
	}
	res, err := h.Locator.LocatePoint(ctx, lat, lng)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type facilitiesQuery struct {
	Lat    float64 `form:"lat" validate:"required,latitude"`
	Lng    float64 `form:"lng" validate:"required,longitude"`
	Radius int     `form:"radius" validate:"omitempty,min=1,max=5000"`
}

// @Summary Facility counts around a coordinate
// @Produce json
// @Param lat query number true "latitude"
// @Param lng query number true "longitude"
// @Param radius query int false "radius in meters"
// @Success 200 {object} models.FacilityReport
// @Router /api/facilities [get]
func (h *Handler) Facilities(c *gin.Context) {
	var q facilitiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid query parameters", err.Error())
		return
	}
	if err := h.Validator.Struct(q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid coordinate or radius", err.Error())
		return
	}

	report, err := h.Locator.FacilityReport(c.Request.Context(), q.Lat, q.Lng, q.Radius)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type highlightRequest struct {
	Region         string   `json:"region"`
	Province       string   `json:"province" validate:"required"`
	Municipality   string   `json:"municipality" validate:"required"`
	Barangay       string   `json:"barangay"`
	Street         string   `json:"street"`
	Vicinity       string   `json:"vicinity" validate:"required"`
	Classification string   `json:"classification"`
	ZonalValue     *float64 `json:"zonal_value"`
}

func (r highlightRequest) record() models.Record {
	rec := models.Record{
		Region:         r.Region,
		Province:       r.Province,
		Municipality:   r.Municipality,
		Barangay:       r.Barangay,
		Street:         r.Street,
		Vicinity:       r.Vicinity,
		Classification: r.Classification,
		ZonalValue:     math.NaN(),
	}
	if r.ZonalValue != nil {
		rec.ZonalValue = *r.ZonalValue
	}
	return rec
}

// @Summary Resolve a record to map geometry
// @Accept json
// @Produce json
// @Param record body highlightRequest true "zonal-value record"
// @Success 200 {object} service.HighlightResult
// @Router /api/highlight [post]
func (h *Handler) Highlight(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid record body", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "province, municipality and vicinity are required", err.Error())
		return
	}

	res, err := h.Locator.Highlight(c.Request.Context(), req.record())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RefreshDatasets re-fetches the dataset manifest. Admin only.
func (h *Handler) RefreshDatasets(c *gin.Context) {
	count, err := h.Datasets.RefreshManifest(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": count})
}

// fail maps pipeline errors onto the HTTP surface. Cancelled requests
// get no response body; the client is already gone.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case fetch.IsCancelled(err):
		c.Abort()
	case errors.Is(err, geocode.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No place found for the query", nil)
	case errors.Is(err, geocode.ErrReverseFailed):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No place found at the coordinate", nil)
	case errors.Is(err, dataset.ErrNoMapping):
		var noMapping *dataset.NoMappingError
		details := gin.H{}
		if errors.As(err, &noMapping) {
			details = gin.H{"key": noMapping.Key, "address": noMapping.Address}
		}
		writeError(c, http.StatusUnprocessableEntity, "NO_DATASET", "No dataset covers the resolved place", details)
	case fetch.IsRetryable(err):
		h.Logger.Warn().Err(err).Msg("upstream unavailable")
		writeError(c, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Upstream service unavailable, try again", nil)
	default:
		h.Logger.Error().Err(err).Msg("request failed")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Lookup failed", err.Error())
	}
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
