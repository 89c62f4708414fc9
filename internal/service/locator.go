// Package service composes geocoding, dataset loading, record matching
// and geometry resolution into the locate pipeline.
package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/juliecor/zonal-backend/internal/dataset"
	"github.com/juliecor/zonal-backend/internal/facility"
	"github.com/juliecor/zonal-backend/internal/geocode"
	"github.com/juliecor/zonal-backend/internal/match"
	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/roads"
)

const (
	DefaultSuggestions = 5
	MaxSuggestions     = 10

	DefaultRadiusM = 1000
	MaxRadiusM     = 5000
)

type Locator struct {
	Geocoder   geocode.Geocoder
	Datasets   *dataset.Store
	Facilities *facility.Aggregator
	Geometry   *roads.GeometryResolver
	Logger     zerolog.Logger
}

// LocateResult is the full answer for one locate call: the resolved
// place, which dataset covered it, and the ranked record matches.
type LocateResult struct {
	Place      models.GeoPoint      `json:"place"`
	DatasetKey string               `json:"dataset_key"`
	Matches    []match.RankedRecord `json:"matches"`
	Confidence string               `json:"confidence"`
}

// HighlightResult pairs the record's reference point with its drawable
// geometry. Line is nil when nothing could be drawn; Warnings explain
// what degraded along the way.
type HighlightResult struct {
	Point    models.RecordPoint    `json:"point"`
	Line     *models.HighlightLine `json:"highlight,omitempty"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Suggest forwards autocomplete lookups to the geocoder with a clamped
// result count.
func (l *Locator) Suggest(ctx context.Context, text string, limit int) ([]models.GeoPoint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestions
	} else if limit > MaxSuggestions {
		limit = MaxSuggestions
	}
	return l.Geocoder.Search(ctx, text, limit)
}

// LocateText geocodes a free-text query and ranks the covering
// dataset's records against it.
func (l *Locator) LocateText(ctx context.Context, query string) (LocateResult, error) {
	place, err := l.Geocoder.GeocodeTop(ctx, query)
	if err != nil {
		return LocateResult{}, err
	}
	return l.locateAt(ctx, place, query)
}

// LocatePoint reverse-geocodes a map coordinate and ranks records
// against the resolved place name.
func (l *Locator) LocatePoint(ctx context.Context, lat, lng float64) (LocateResult, error) {
	place, err := l.Geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		return LocateResult{}, err
	}
	return l.locateAt(ctx, place, place.DisplayName)
}

func (l *Locator) locateAt(ctx context.Context, place models.GeoPoint, query string) (LocateResult, error) {
	key, err := dataset.DetectKey(place.Address)
	if err != nil {
		return LocateResult{}, err
	}
	records, err := l.Datasets.Ensure(ctx, key)
	if err != nil {
		return LocateResult{}, err
	}

	ranked := match.Rank(records, query, hintsFrom(place.Address))
	result := LocateResult{
		Place:      place,
		DatasetKey: key,
		Matches:    ranked,
		Confidence: "unknown",
	}
	if len(ranked) > 0 {
		result.Confidence = match.Confidence(ranked[0].Score)
	}
	l.Logger.Info().
		Str("key", key).
		Int("matches", len(ranked)).
		Str("confidence", result.Confidence).
		Msg("locate done")
	return result, nil
}

// hintsFrom pulls municipality and province hints out of geocoder
// address components, using the same locality preference order as
// dataset key detection.
func hintsFrom(address map[string]string) *match.Hints {
	if len(address) == 0 {
		return nil
	}
	hints := &match.Hints{}
	for _, field := range []string{"city", "town", "municipality", "village", "county"} {
		if v := strings.TrimSpace(address[field]); v != "" {
			hints.Municipality = v
			break
		}
	}
	for _, field := range []string{"province", "state"} {
		if v := strings.TrimSpace(address[field]); v != "" {
			hints.Province = v
			break
		}
	}
	if hints.Municipality == "" && hints.Province == "" {
		return nil
	}
	return hints
}

// FacilityReport counts facilities around a coordinate with a clamped
// radius.
func (l *Locator) FacilityReport(ctx context.Context, lat, lng float64, radiusM int) (models.FacilityReport, error) {
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	} else if radiusM > MaxRadiusM {
		radiusM = MaxRadiusM
	}
	return l.Facilities.Report(ctx, lat, lng, radiusM)
}

// Highlight resolves a record to its reference point and drawable
// geometry.
func (l *Locator) Highlight(ctx context.Context, rec models.Record) (HighlightResult, error) {
	line, warnings, err := l.Geometry.Resolve(ctx, rec)
	if err != nil {
		return HighlightResult{}, err
	}
	point, err := l.Geometry.RecordPoint(ctx, rec)
	if err != nil {
		return HighlightResult{}, err
	}
	return HighlightResult{Point: point, Line: line, Warnings: warnings}, nil
}
