package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/juliecor/zonal-backend/internal/fetch"
	"github.com/juliecor/zonal-backend/internal/models"
)

// Client talks to Nominatim-compatible jsonv2 endpoints through the
// fallback fetcher.
type Client struct {
	SearchEndpoints  []string
	ReverseEndpoints []string
	Fetcher          *fetch.Client
	Logger           zerolog.Logger
}

type placeItem struct {
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Address     map[string]string `json:"address"`
}

func (c *Client) Search(ctx context.Context, text string, limit int) ([]models.GeoPoint, error) {
	if limit <= 0 {
		limit = 5
	}
	build := func(ctx context.Context, endpoint string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("format", "jsonv2")
		q.Set("addressdetails", "1")
		q.Set("limit", strconv.Itoa(limit))
		q.Set("q", text)
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	var items []placeItem
	if err := c.Fetcher.DoJSON(ctx, c.SearchEndpoints, build, &items); err != nil {
		return nil, err
	}

	points := make([]models.GeoPoint, 0, len(items))
	for _, item := range items {
		pt, err := item.toPoint()
		if err != nil {
			c.Logger.Debug().Str("display_name", item.DisplayName).Msg("skipping unparseable search result")
			continue
		}
		points = append(points, pt)
	}
	return points, nil
}

func (c *Client) GeocodeTop(ctx context.Context, text string) (models.GeoPoint, error) {
	points, err := c.Search(ctx, text, 1)
	if err != nil {
		return models.GeoPoint{}, err
	}
	if len(points) == 0 {
		return models.GeoPoint{}, ErrNotFound
	}
	return points[0], nil
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (models.GeoPoint, error) {
	build := func(ctx context.Context, endpoint string) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		q.Set("format", "jsonv2")
		q.Set("addressdetails", "1")
		q.Set("zoom", "18")
		q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
		req.URL.RawQuery = q.Encode()
		return req, nil
	}

	var item placeItem
	if err := c.Fetcher.DoJSON(ctx, c.ReverseEndpoints, build, &item); err != nil {
		if fetch.IsCancelled(err) {
			return models.GeoPoint{}, err
		}
		return models.GeoPoint{}, fmt.Errorf("%w: %v", ErrReverseFailed, err)
	}

	pt, err := item.toPoint()
	if err != nil {
		pt = models.GeoPoint{Lat: lat, Lng: lng, Address: item.Address}
	}
	if pt.DisplayName == "" {
		pt.DisplayName = fmt.Sprintf("%.6f, %.6f", pt.Lat, pt.Lng)
	}
	return pt, nil
}

func (item placeItem) toPoint() (models.GeoPoint, error) {
	lat, err := strconv.ParseFloat(item.Lat, 64)
	if err != nil {
		return models.GeoPoint{}, err
	}
	lng, err := strconv.ParseFloat(item.Lon, 64)
	if err != nil {
		return models.GeoPoint{}, err
	}
	return models.GeoPoint{
		DisplayName: item.DisplayName,
		Lat:         lat,
		Lng:         lng,
		Address:     item.Address,
	}, nil
}
