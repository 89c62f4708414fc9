package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/juliecor/zonal-backend/internal/cache"
	"github.com/juliecor/zonal-backend/internal/models"
)

// Manifest maps a dataset key to the resource path of its record file.
type Manifest map[string]string

// Store loads record files on demand and holds them for the process
// lifetime. The manifest is configuration: it is fetched with no-cache
// headers and can be refreshed explicitly.
type Store struct {
	ManifestURL string
	HTTPClient  *http.Client
	Records     *cache.Cache[[]models.Record]
	Logger      zerolog.Logger

	mu       sync.Mutex
	manifest Manifest
}

func (s *Store) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Ensure returns the records for a dataset key, loading them on first
// use. A key absent from the manifest is a NoMappingError.
func (s *Store) Ensure(ctx context.Context, key string) ([]models.Record, error) {
	if records, ok := s.Records.Get(key); ok {
		return records, nil
	}

	manifest, err := s.getManifest(ctx)
	if err != nil {
		return nil, err
	}
	path, ok := manifest[key]
	if !ok {
		return nil, &NoMappingError{Key: key}
	}

	resource, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resource, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dataset %s: fetch returned status %d", key, resp.StatusCode)
	}

	records, err := DecodeRecords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", key, err)
	}
	s.Records.Put(key, records)
	s.Logger.Info().Str("key", key).Int("records", len(records)).Msg("dataset loaded")
	return records, nil
}

// RefreshManifest re-fetches the manifest, replacing the held copy.
func (s *Store) RefreshManifest(ctx context.Context) (int, error) {
	manifest, err := s.fetchManifest(ctx)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.manifest = manifest
	s.mu.Unlock()
	return len(manifest), nil
}

func (s *Store) getManifest(ctx context.Context) (Manifest, error) {
	s.mu.Lock()
	cached := s.manifest
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	manifest, err := s.fetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.manifest = manifest
	s.mu.Unlock()
	return manifest, nil
}

// fetchManifest always bypasses HTTP caches; the manifest is
// configuration, not data.
func (s *Store) fetchManifest(ctx context.Context) (Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ManifestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("manifest fetch returned status %d", resp.StatusCode)
	}

	var manifest Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return manifest, nil
}

// resolve makes a manifest path absolute against the manifest URL.
func (s *Store) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return path, nil
	}
	base, err := url.Parse(s.ManifestURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
