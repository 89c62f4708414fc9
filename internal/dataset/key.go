// Package dataset detects which zonal-value dataset covers a geocoded
// place, fetches the dataset manifest, and loads record files.
package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/juliecor/zonal-backend/internal/textutil"
)

// ErrNoMapping is matched with errors.Is against *NoMappingError.
var ErrNoMapping = errors.New("dataset: no mapping for detected key")

// NoMappingError carries the detected key and the raw address fields
// so a missing dataset can be diagnosed and configured.
type NoMappingError struct {
	Key     string
	Address map[string]string
}

func (e *NoMappingError) Error() string {
	return fmt.Sprintf("no dataset mapping for key %q (address: %v)", e.Key, e.Address)
}

func (e *NoMappingError) Is(target error) bool {
	return target == ErrNoMapping
}

// keyOverrides maps administrative names to dataset keys for
// municipalities whose dataset filename does not follow the plain
// name convention.
var keyOverrides = map[string]string{
	"BAGUIO":       "BAGUIOCITY",
	"QUEZON":       "QUEZONCITY",
	"CEBU":         "CEBUCITY",
	"DAVAO":        "DAVAOCITY",
	"ILOILO":       "ILOILOCITY",
	"ZAMBOANGA":    "ZAMBOANGACITY",
	"CAGAYANDEORO": "CAGAYANDEOROCITY",
}

// localityFields is the address-component preference order for the
// municipality-level name.
var localityFields = []string{"city", "town", "municipality", "village", "county"}

// NormalizeKey strips locale words, separators and case from an
// administrative name, yielding the uppercase dataset key form.
func NormalizeKey(name string) string {
	n := strings.ToUpper(textutil.Normalize(name))
	for _, word := range []string{"PROVINCE OF", "CITY OF", "PROVINCE"} {
		n = strings.ReplaceAll(n, word, " ")
	}
	var b strings.Builder
	for _, r := range n {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DetectKey derives the dataset key from geocoder address components,
// applying the override table.
func DetectKey(address map[string]string) (string, error) {
	var raw string
	for _, field := range localityFields {
		if v := strings.TrimSpace(address[field]); v != "" {
			raw = v
			break
		}
	}
	if raw == "" {
		return "", &NoMappingError{Address: address}
	}
	key := NormalizeKey(raw)
	if override, ok := keyOverrides[key]; ok {
		key = override
	}
	return key, nil
}
