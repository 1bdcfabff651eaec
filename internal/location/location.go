// Package location resolves free-text locations onto the canonical city
// allow-list shared between ingestion and the listing frontend.
package location

import "strings"

// Resolver maps city candidates onto the canonical allow-list: alias
// lookup first, then exact membership. No fuzzy matching; unrecognized
// values resolve to empty so filter cardinality stays bounded.
type Resolver struct {
	aliases map[string]string
	valid   map[string]struct{}
}

func NewResolver(validCities []string, aliases map[string]string) *Resolver {
	r := &Resolver{
		aliases: make(map[string]string, len(aliases)),
		valid:   make(map[string]struct{}, len(validCities)),
	}
	for from, to := range aliases {
		r.aliases[from] = to
	}
	for _, city := range validCities {
		r.valid[city] = struct{}{}
	}
	return r
}

// Resolve returns the canonical city for a candidate, or "" when the
// (possibly alias-mapped) value is not on the allow-list.
func (r *Resolver) Resolve(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return ""
	}
	if mapped, ok := r.aliases[city]; ok {
		city = mapped
	}
	if _, ok := r.valid[city]; ok {
		return city
	}
	return ""
}

type detectRule struct {
	fragments []string
	city      string
}

// Earlier rules win, so boroughs and metro names take priority over the
// cities that merely contain them.
var detectRules = []detectRule{
	{[]string{"austin"}, "Austin"},
	{[]string{"san francisco", " sf "}, "San Francisco"},
	{[]string{"san jose"}, "San Jose"},
	{[]string{"oakland"}, "Oakland"},
	{[]string{"new york", "nyc", "manhattan"}, "New York"},
	{[]string{"brooklyn"}, "Brooklyn"},
	{[]string{"los angeles", " la "}, "Los Angeles"},
	{[]string{"miami"}, "Miami"},
	{[]string{"chicago"}, "Chicago"},
	{[]string{"seattle"}, "Seattle"},
	{[]string{"denver"}, "Denver"},
	{[]string{"boston"}, "Boston"},
	{[]string{"washington", " dc "}, "Washington DC"},
}

// Detect is the extractors' best-effort city sniff over scraped location
// text. It returns a candidate name (possibly an alias, e.g. Brooklyn) for
// Resolve, or "" when nothing known appears in the text.
func Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	padded := " " + strings.ToLower(text) + " "
	for _, rule := range detectRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(padded, fragment) {
				return rule.city
			}
		}
	}
	return ""
}
