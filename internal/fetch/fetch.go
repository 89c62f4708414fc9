// Package fetch is the resilient HTTP caller shared by the geocoder
// and the spatial-query client: ordered endpoint fallback, JSON
// decoding, and cooperative cancellation.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// BuildFunc constructs the request for one endpoint attempt.
type BuildFunc func(ctx context.Context, endpoint string) (*http.Request, error)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.Code, e.Body)
}

type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Logger     zerolog.Logger
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// DoJSON tries each endpoint in order and decodes the first successful
// 2xx JSON body into out. A non-2xx status, network error or malformed
// body advances to the next endpoint; when every endpoint fails the
// LAST endpoint's error is returned. Cancellation aborts the in-flight
// attempt and the rest of the chain immediately and is returned as the
// context's own error, never as an endpoint failure.
func (c *Client) DoJSON(ctx context.Context, endpoints []string, build BuildFunc, out any) error {
	if len(endpoints) == 0 {
		return errors.New("fetch: no endpoints configured")
	}
	var lastErr error
	for _, endpoint := range endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.tryEndpoint(ctx, endpoint, build, out)
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.Logger.Debug().Str("endpoint", endpoint).Err(err).Msg("endpoint attempt failed")
		lastErr = err
	}
	return lastErr
}

func (c *Client) tryEndpoint(ctx context.Context, endpoint string, build BuildFunc, out any) error {
	req, err := build(ctx, endpoint)
	if err != nil {
		return err
	}
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if !json.Valid(body) {
		return fmt.Errorf("malformed response from %s", endpoint)
	}
	return json.Unmarshal(body, out)
}

// IsCancelled reports whether err is cooperative cancellation rather
// than an upstream failure. Cancellation must never surface as a
// user-visible error.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IsRetryable classifies transient upstream failures: rate limiting
// and gateway timeouts by status code, plus timeout-flavored message
// text from providers that report errors in prose.
func IsRetryable(err error) bool {
	if err == nil || IsCancelled(err) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Code {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "timed out", "too many requests", "rate_limited", "load too high"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
