// Package overpass issues Overpass QL queries through the fallback
// fetcher and parses element lists.
package overpass

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/juliecor/zonal-backend/internal/fetch"
	"github.com/juliecor/zonal-backend/internal/models"
)

// Querier is the spatial-query surface consumed by the facility
// aggregator and the geometry resolver.
type Querier interface {
	Query(ctx context.Context, ql string) ([]models.Element, error)
}

type Client struct {
	Endpoints []string
	Fetcher   *fetch.Client
	Logger    zerolog.Logger
}

type queryResponse struct {
	Elements []models.Element `json:"elements"`
}

// Query POSTs the QL string as a form-urlencoded "data" field, trying
// each endpoint in order.
func (c *Client) Query(ctx context.Context, ql string) ([]models.Element, error) {
	build := func(ctx context.Context, endpoint string) (*http.Request, error) {
		form := url.Values{"data": {ql}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	}

	var resp queryResponse
	if err := c.Fetcher.DoJSON(ctx, c.Endpoints, build, &resp); err != nil {
		return nil, err
	}
	c.Logger.Debug().Int("elements", len(resp.Elements)).Msg("spatial query done")
	return resp.Elements, nil
}

// Dedupe removes exact (type, id) duplicates, preserving first-seen
// order. Overlapping queries can return the same physical feature
// more than once.
func Dedupe(elements []models.Element) []models.Element {
	seen := make(map[string]struct{}, len(elements))
	out := make([]models.Element, 0, len(elements))
	for _, el := range elements {
		key := fmt.Sprintf("%s/%d", el.Type, el.ID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, el)
	}
	return out
}
