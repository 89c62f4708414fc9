package roads

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/juliecor/zonal-backend/internal/cache"
	"github.com/juliecor/zonal-backend/internal/geocode"
	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/textutil"
)

// AnchorResolver geocodes a municipality+province pair to a stable
// anchor coordinate. Anchors are cached for the session; a failed
// anchor is fatal to any geometry resolution for that record.
type AnchorResolver struct {
	Geocoder geocode.Geocoder
	Anchors  *cache.Cache[models.Anchor]
	Logger   zerolog.Logger
}

func anchorKey(municipality, province string) string {
	return textutil.Normalize(municipality) + "|" + textutil.Normalize(province)
}

func (r *AnchorResolver) Anchor(ctx context.Context, municipality, province string) (models.Anchor, error) {
	key := anchorKey(municipality, province)
	if anchor, ok := r.Anchors.Get(key); ok {
		return anchor, nil
	}

	pt, err := r.Geocoder.GeocodeTop(ctx, fmt.Sprintf("%s, %s, Philippines", municipality, province))
	if err != nil {
		return models.Anchor{}, err
	}
	anchor := models.Anchor{Lat: pt.Lat, Lng: pt.Lng, Label: pt.DisplayName}
	r.Anchors.Put(key, anchor)
	r.Logger.Debug().Str("key", key).Msg("anchor resolved")
	return anchor, nil
}
