// Package match scores zonal-value records against a free-text query
// and optional location hints.
package match

import (
	"math"
	"sort"
	"strings"

	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/textutil"
)

// Product-tuned scoring constants. They are a compatibility contract
// with existing datasets and consumers; do not tune per call.
const (
	ExactPoints     = 120
	SubstringPoints = 55
	TokenPoints     = 6
	HintBonus       = 80
	UnparsedPenalty = -250

	HighThreshold   = 700
	MediumThreshold = 350

	TopN = 6
)

// Field weights in priority order.
const (
	weightVicinity       = 6
	weightStreet         = 4
	weightBarangay       = 3
	weightMunicipality   = 2
	weightProvince       = 2
	weightClassification = 1
)

// Hints are locality fields detected from geocoding the query.
type Hints struct {
	Municipality string
	Province     string
}

// RankedRecord pairs a record with its score.
type RankedRecord struct {
	Record models.Record `json:"record"`
	Score  float64       `json:"score"`
}

// suffixExpansions canonicalizes common road-suffix abbreviations so
// "Session Rd" and "Session Road" compare equal.
var suffixExpansions = map[string]string{
	"rd":   "road",
	"st":   "street",
	"ave":  "avenue",
	"blvd": "boulevard",
	"hwy":  "highway",
	"ext":  "extension",
	"jct":  "junction",
}

func canonical(s string) string {
	fields := strings.Fields(textutil.Normalize(s))
	for i, f := range fields {
		f = strings.TrimSuffix(f, ".")
		if full, ok := suffixExpansions[f]; ok {
			f = full
		}
		fields[i] = f
	}
	return strings.Join(fields, " ")
}

func tokenSet(canon string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, f := range strings.Fields(canon) {
		if len(f) >= 3 {
			set[f] = struct{}{}
		}
	}
	return set
}

// stripLocality removes the record's own municipality and province
// tokens from the query so road-level fields compare against the
// road-level remainder ("session road baguio" vs a Baguio record
// leaves "session road").
func stripLocality(queryCanon string, locality ...string) string {
	drop := map[string]struct{}{}
	for _, l := range locality {
		for _, tok := range strings.Fields(l) {
			drop[tok] = struct{}{}
		}
	}
	fields := strings.Fields(queryCanon)
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := drop[f]; !ok {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// fieldPoints applies the three-tier comparison: exact match,
// substring containment, then token overlap.
func fieldPoints(fieldCanon, target string, queryTokens map[string]struct{}) float64 {
	if target != "" && fieldCanon == target {
		return ExactPoints
	}
	if target != "" && len(fieldCanon) >= 3 && (strings.Contains(target, fieldCanon) || strings.Contains(fieldCanon, target)) {
		return SubstringPoints
	}
	overlap := 0
	for tok := range tokenSet(fieldCanon) {
		if _, ok := queryTokens[tok]; ok {
			overlap++
		}
	}
	return float64(TokenPoints * overlap)
}

// Score rates one record against the query. Road-level fields
// (vicinity, street, barangay) are compared against the query with the
// record's locality tokens stripped; locality fields see the full
// query. Hints add a flat bonus on exact normalized equality. Records
// with an unparseable zonal value are penalized so they rank last.
func Score(rec models.Record, query string, hints *Hints) float64 {
	q := canonical(query)
	if q == "" {
		return penalty(rec)
	}
	qTokens := tokenSet(q)
	roadTarget := stripLocality(q, canonical(rec.Municipality), canonical(rec.Province))

	total := 0.0
	score := func(value string, weight int, target string) {
		f := canonical(value)
		if f == "" {
			return
		}
		total += fieldPoints(f, target, qTokens) * float64(weight)
	}

	score(rec.Vicinity, weightVicinity, roadTarget)
	score(rec.Street, weightStreet, roadTarget)
	score(rec.Barangay, weightBarangay, roadTarget)
	score(rec.Municipality, weightMunicipality, q)
	score(rec.Province, weightProvince, q)
	score(rec.Classification, weightClassification, q)

	if hints != nil {
		if hintEqual(hints.Municipality, rec.Municipality) {
			total += HintBonus
		}
		if hintEqual(hints.Province, rec.Province) {
			total += HintBonus
		}
	}
	return total + penalty(rec)
}

func penalty(rec models.Record) float64 {
	if math.IsNaN(rec.ZonalValue) {
		return UnparsedPenalty
	}
	return 0
}

func hintEqual(hint, field string) bool {
	h := textutil.Normalize(hint)
	return h != "" && h == textutil.Normalize(field)
}

// Rank scores every record and returns the top 6 by score descending.
// Ties keep the original dataset order (stable sort).
func Rank(records []models.Record, query string, hints *Hints) []RankedRecord {
	ranked := make([]RankedRecord, 0, len(records))
	for _, rec := range records {
		ranked = append(ranked, RankedRecord{Record: rec, Score: Score(rec, query, hints)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked
}

// Confidence buckets a top score for the consumer.
func Confidence(topScore float64) string {
	switch {
	case topScore > HighThreshold:
		return "High"
	case topScore > MediumThreshold:
		return "Medium"
	case topScore > 0:
		return "Low"
	default:
		return "unknown"
	}
}
