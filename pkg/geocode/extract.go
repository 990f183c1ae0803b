package geocode

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// District extraction patterns, tried in order against the combined
// lowercased location and description text.
var districtPatterns = []*regexp.Regexp{
	regexp.MustCompile(`district[:\-\s]+([a-z\s]+)`),
	regexp.MustCompile(`dist[.\-\s]+([a-z\s]+)`),
	regexp.MustCompile(`taluka[:\-\s]+([a-z\s]+)`),
	regexp.MustCompile(`tal[.\-\s]+([a-z\s]+)`),
	regexp.MustCompile(`village[:\-\s]+([a-z\s]+)`),
}

// trailingClause strips "and ...", parentheticals, and sentence tails from a
// captured district name.
var trailingClause = regexp.MustCompile(`\s+(and|,|\.|\().*$`)

var titleCaser = cases.Title(language.English)

// ExtractDistrict mines a district or city name out of the location string
// and project description. It falls back to the state name when no pattern
// matches, so the gazetteer can still place the lead at the state capital.
func ExtractDistrict(location, description, state string) string {
	if location == "" && description == "" {
		return state
	}

	combined := strings.ToLower(location + " " + description)
	for _, pat := range districtPatterns {
		m := pat.FindStringSubmatch(combined)
		if m == nil {
			continue
		}
		extracted := strings.TrimSpace(m[1])
		extracted = strings.TrimSpace(trailingClause.ReplaceAllString(extracted, ""))
		extracted = titleCaser.String(extracted)
		// Short captures are usually stray prepositions, not place names.
		if len(extracted) > 3 {
			return extracted
		}
	}

	// A bare location string with no marker is often already a place name.
	if loc := strings.TrimSpace(location); loc != "" && !strings.EqualFold(loc, state) {
		return titleCaser.String(strings.ToLower(loc))
	}

	return state
}
