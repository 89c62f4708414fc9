// Package roads turns a record's vicinity text into road-name
// candidates and resolves them to map geometry.
package roads

import (
	"regexp"
	"strings"

	"github.com/juliecor/zonal-backend/internal/models"
	"github.com/juliecor/zonal-backend/internal/textutil"
)

const (
	maxCandidates     = 3
	minCandidateChars = 4
	clipSeparator     = " - "
)

// nonRoadWords reject junction bounds that describe parcels rather
// than roads.
var nonRoadWords = map[string]struct{}{
	"property":    {},
	"lot":         {},
	"house":       {},
	"compound":    {},
	"building":    {},
	"block":       {},
	"subdivision": {},
}

var (
	junctionPhraseRe = regexp.MustCompile(`(?i)junction\s+(.+?)(?:\s+to\s+|$)`)
	clipBothRe       = regexp.MustCompile(`(?i)^junction\s+(.+?)\s+to\s+junction\s+(.+)$`)
	clipShortRe      = regexp.MustCompile(`(?i)^junction\s+(.+?)\s+to\s+(.+)$`)
)

// ExtractCandidates parses a vicinity description into up to three
// road-name candidates: the segment before a " - " separator (or the
// whole text) plus any "junction X" phrases. Candidates are cleaned,
// at least four characters long, and deduplicated case-insensitively.
func ExtractCandidates(vicinity string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(name string) {
		name = cleanName(name)
		if len(name) < minCandidateChars || len(out) >= maxCandidates {
			return
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}

	if i := strings.Index(vicinity, clipSeparator); i >= 0 {
		add(vicinity[:i])
	} else {
		add(vicinity)
	}
	for _, m := range junctionPhraseRe.FindAllStringSubmatch(vicinity, -1) {
		add(m[1])
	}
	return out
}

// ParseJunctionClip extracts a "main road between two cross roads"
// description from vicinity text. It is a best-effort heuristic over
// free-form administrative text: it may miss valid clips and returns
// nil (never an error) on anything it cannot parse.
func ParseJunctionClip(vicinity string) *models.JunctionClip {
	i := strings.Index(vicinity, clipSeparator)
	if i < 0 {
		return nil
	}
	main := cleanName(vicinity[:i])
	rest := strings.TrimSpace(vicinity[i+len(clipSeparator):])
	if len(main) < minCandidateChars {
		return nil
	}

	var a, b string
	if m := clipBothRe.FindStringSubmatch(rest); m != nil {
		a, b = m[1], m[2]
	} else if m := clipShortRe.FindStringSubmatch(rest); m != nil {
		a, b = m[1], m[2]
	} else {
		return nil
	}

	a = cleanName(a)
	b = cleanName(b)
	if len(a) < minCandidateChars || len(b) < minCandidateChars {
		return nil
	}
	if isNonRoad(a) || isNonRoad(b) {
		return nil
	}
	return &models.JunctionClip{Main: main, A: a, B: b}
}

func isNonRoad(name string) bool {
	for _, tok := range strings.Fields(textutil.Normalize(name)) {
		if _, ok := nonRoadWords[tok]; ok {
			return true
		}
	}
	return false
}

// cleanName trims surrounding whitespace and stray punctuation but
// keeps inner dots and apostrophes, which are part of road names.
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Trim(name, ",;:()")
	return strings.Join(strings.Fields(name), " ")
}
