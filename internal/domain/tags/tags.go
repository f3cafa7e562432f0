// Package tags parses free-text style and music columns into tag sets.
//
// Parsing happens once, when a dataset is loaded. Scoring only ever sees the
// resulting model.TagSet values.
package tags

import (
	"strings"

	"github.com/okian/barhop/internal/domain/model"
)

// Missing is the placeholder the source data uses for an empty column.
const Missing = "N/A"

// separators splits on ASCII and full-width commas and the ideographic comma.
func separators(r rune) bool {
	return r == ',' || r == '，' || r == '、'
}

// Parse splits raw on commas and returns the trimmed, de-duplicated tags.
// Empty input and the Missing placeholder yield an empty set.
func Parse(raw string) model.TagSet {
	parts := strings.FieldsFunc(raw, separators)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.EqualFold(p, Missing) {
			continue
		}
		out = append(out, p)
	}
	return model.NewTagSet(out...)
}

// ParseMusic is Parse with music-genre spelling variants folded together.
func ParseMusic(raw string) model.TagSet {
	set := Parse(raw)
	out := make([]string, len(set))
	for i, t := range set {
		out[i] = CanonicalMusic(t)
	}
	return model.NewTagSet(out...)
}

// CanonicalMusic folds known spelling variants of a genre to one name.
func CanonicalMusic(tag string) string {
	tag = strings.TrimSpace(tag)
	upper := strings.ToUpper(toHalfWidth(tag))
	switch {
	case strings.Contains(upper, "EDM"):
		return "EDM"
	case strings.Contains(upper, "LO-FI"), strings.Contains(upper, "LOFI"):
		return "Lo-fi"
	default:
		return tag
	}
}

// toHalfWidth maps full-width ASCII variants (Ａ-Ｚ etc.) to ASCII.
func toHalfWidth(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '！' && r <= '～' {
			return r - '！' + '!'
		}
		return r
	}, s)
}
