package textutil

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Normalize canonicalizes free text for comparison: folds non-ASCII
// letters, lower-cases, strips everything outside letters, digits,
// space, '.' and '-', collapses whitespace and trims. Idempotent.
func Normalize(s string) string {
	s = strings.ToLower(unidecode.Unidecode(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the normalized tokens of s that are at least three
// characters long, which is the unit of token-overlap scoring.
func Tokens(s string) []string {
	fields := strings.Fields(Normalize(s))
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 3 {
			out = append(out, f)
		}
	}
	return out
}

// TokenSet returns Tokens as a membership set.
func TokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range Tokens(s) {
		set[t] = struct{}{}
	}
	return set
}
