// Package facility reduces spatial queries around a point into a
// fixed-category facility report.
package facility

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/juliecor/zonal-backend/internal/cache"
	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/overpass"
)

// amenityClasses is the amenity regex for the first of the three
// queries; each value maps into a report bucket in countAmenities.
const amenityClasses = "hospital|clinic|doctors|school|college|university|police|fire_station|pharmacy|bank|marketplace"

type Aggregator struct {
	Spatial overpass.Querier
	Reports *cache.Cache[models.FacilityReport]
	Logger  zerolog.Logger
}

// CacheKey rounds the coordinate to 5 decimal places so repeated
// lookups from pin jitter share one entry.
func CacheKey(lat, lng float64, radiusM int) string {
	return fmt.Sprintf("%.5f|%.5f|%d", lat, lng, radiusM)
}

// Report runs the amenity, mall and transport queries concurrently and
// reduces them to category counts. Results are cached by rounded
// coordinate and radius; a cache hit issues no network calls. Any
// query that still fails after endpoint fallback fails the report.
func (a *Aggregator) Report(ctx context.Context, lat, lng float64, radiusM int) (models.FacilityReport, error) {
	key := CacheKey(lat, lng, radiusM)
	if report, ok := a.Reports.Get(key); ok {
		return report, nil
	}

	var amenities, malls, transport []models.Element
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		amenities, err = a.Spatial.Query(gctx, overpass.TagRegexQuery("amenity", amenityClasses, radiusM, lat, lng))
		return err
	})
	g.Go(func() error {
		var err error
		malls, err = a.Spatial.Query(gctx, overpass.TagValueQuery("shop", "mall", radiusM, lat, lng))
		return err
	})
	g.Go(func() error {
		var err error
		transport, err = a.Spatial.Query(gctx, overpass.TransportQuery(radiusM, lat, lng))
		return err
	})
	if err := g.Wait(); err != nil {
		return models.FacilityReport{}, err
	}

	report := countAmenities(amenities)
	report.Mall = len(malls)
	report.Transport = len(overpass.Dedupe(transport))

	a.Reports.Put(key, report)
	a.Logger.Debug().Str("key", key).Msg("facility report cached")
	return report, nil
}

func countAmenities(elements []models.Element) models.FacilityReport {
	var report models.FacilityReport
	for _, el := range elements {
		switch el.Tags["amenity"] {
		case "hospital", "clinic", "doctors":
			report.Hospitals++
		case "school", "college", "university":
			report.Schools++
		case "police":
			report.Police++
		case "fire_station":
			report.Fire++
		case "pharmacy":
			report.Pharmacy++
		case "bank":
			report.Bank++
		case "marketplace":
			report.Market++
		}
	}
	return report
}
