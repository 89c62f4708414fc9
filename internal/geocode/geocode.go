package geocode

import (
	"context"
	"errors"

	"github.com/juliecor/zonal-backend/internal/models"
)

// ErrNotFound means the provider returned zero results; the query has
// to be refined by the user.
var ErrNotFound = errors.New("geocode: no results")

// ErrReverseFailed means the reverse lookup did not produce a usable
// place for the coordinate.
var ErrReverseFailed = errors.New("geocode: reverse lookup failed")

type Geocoder interface {
	// Search is the forward lookup used for autocomplete suggestions.
	Search(ctx context.Context, text string, limit int) ([]models.GeoPoint, error)
	// GeocodeTop returns the best forward result or ErrNotFound.
	GeocodeTop(ctx context.Context, text string) (models.GeoPoint, error)
	// Reverse resolves a coordinate to a place.
	Reverse(ctx context.Context, lat, lng float64) (models.GeoPoint, error)
}
