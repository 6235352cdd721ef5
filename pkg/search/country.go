package search

import "strings"

// Country labels inferred from repository names.
const (
	CountryItaly       = "Italy"
	CountryFrance      = "France"
	CountryGermany     = "Germany"
	CountrySpain       = "Spain"
	CountryNetherlands = "Netherlands"
	CountryEstonia     = "Estonia"
	CountryOther       = "Other"
)

// countryHints is checked in order; the first substring found wins.
var countryHints = []struct {
	hint    string
	country string
}{
	{"italia", CountryItaly},
	{"france", CountryFrance},
	{"germany", CountryGermany},
	{"spain", CountrySpain},
	{"netherlands", CountryNetherlands},
	{"estonia", CountryEstonia},
}

// GuessCountry infers a country from a repository id such as
// "italia/design-kit". It is a naming heuristic, not manifest data.
func GuessCountry(repositoryID string) string {
	id := strings.ToLower(repositoryID)
	for _, h := range countryHints {
		if strings.Contains(id, h.hint) {
			return h.country
		}
	}
	return CountryOther
}

// Countries returns the distinct countries of records in first-seen order.
func Countries(records []EnrichedRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range records {
		c := GuessCountry(r.RepositoryID)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
