package menu

import (
	"strings"

	"golang.org/x/text/language"
)

// Localize resolves a display field for a language: it looks up the
// language-suffixed variant (name_sq for field "name" and language "sq")
// and falls back to the canonical field when the variant is absent or
// empty. Returns "" when the canonical field is missing too.
//
// Full BCP-47 tags are reduced to their base language first, so "sq-AL"
// finds the "_sq" variant.
func Localize(record Fields, field, lang string) string {
	if field == "" {
		return ""
	}
	if code := languageCode(lang); code != "" {
		if v := record.String(field + "_" + code); v != "" {
			return v
		}
	}
	return record.String(field)
}

// languageCode normalizes a viewer-supplied language tag to the
// lowercase base code used in column suffixes.
func languageCode(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		// Not a well-formed tag; use it verbatim, lowered.
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	return base.String()
}
