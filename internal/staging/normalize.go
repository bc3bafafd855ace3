package staging

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// cityNormSQL returns the SQL expression that normalizes a city column:
// lowercase, strip accents, replace non-alphanumeric runs with a space,
// collapse whitespace, trim. Requires the unaccent extension.
func cityNormSQL(column string) string {
	return fmt.Sprintf(`trim(
        regexp_replace(
            regexp_replace(
                unaccent(LOWER(%s)),
                '[^a-z0-9]+',
                ' ',
                'g'
            ),
            '\s+',
            ' ',
            'g'
        )
    )`, column)
}

// NormalizeCity applies the same normalization as the staging SQL.
// "São Paulo!!" becomes "sao paulo".
func NormalizeCity(city string) string {
	s := stripAccents(strings.ToLower(city))
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
