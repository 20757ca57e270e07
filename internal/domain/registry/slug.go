package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// NameCandidates reverses the common slug transforms and returns the
// display names a slug could have been derived from, in lookup order.
// Exact lookups try each candidate in this order; the first candidate
// is also the fragment used for the partial fallback.
func NameCandidates(slug string) []string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}

	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	spaced = strings.Join(strings.Fields(spaced), " ")

	candidates := []string{
		titleCaser.String(spaced),
		spaced,
		strings.ToLower(spaced),
		slug,
	}

	return dedupe(candidates)
}

// PrimaryCandidate is the spaced, title-cased form of the slug, used as
// the fragment for the case-insensitive partial match.
func PrimaryCandidate(slug string) string {
	c := NameCandidates(slug)
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
