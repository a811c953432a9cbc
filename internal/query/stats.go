package query

import (
	"maps"
	"slices"
	"strings"

	"github.com/couchcryptid/qsolog/internal/domain"
)

// usCountries are the DXCC entity names whose contacts carry a US state.
var usCountries = map[string]bool{
	"UNITED STATES OF AMERICA": true,
	"ALASKA":                   true,
	"HAWAII":                   true,
}

// Tally is a name with a count.
type Tally struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// FieldCount is how many QSOs carry a field.
type FieldCount struct {
	Name    string  `json:"name" yaml:"name"`
	Count   int     `json:"count" yaml:"count"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Census counts how many QSOs carry each field, sorted by field name.
func Census(qsos []domain.QSO) []FieldCount {
	counts := make(map[string]int)
	for _, q := range qsos {
		for _, name := range q.Names() {
			counts[name]++
		}
	}

	out := make([]FieldCount, 0, len(counts))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		out = append(out, FieldCount{
			Name:    name,
			Count:   counts[name],
			Percent: percent(counts[name], len(qsos)),
		})
	}
	return out
}

// Stats summarizes a group.
type Stats struct {
	Total            int
	Confirmed        int
	ConfirmedPercent float64
	Countries        []Tally // by name
	States           []Tally // by name, US entities only
}

// Stats computes totals and per-country and per-state counts.
func (g Group) Stats() Stats {
	s := Stats{
		Total:            len(g.QSOs),
		Confirmed:        len(g.QSLs),
		ConfirmedPercent: percent(len(g.QSLs), len(g.QSOs)),
	}

	countries := make(map[string]int)
	states := make(map[string]int)
	for _, q := range g.QSOs {
		country := q.Text(domain.FieldCountry)
		if country == "" {
			continue
		}
		countries[country]++
		if state := q.Text(domain.FieldState); state != "" && usCountries[country] {
			states[state]++
		}
	}
	s.Countries = tallies(countries)
	s.States = tallies(states)
	return s
}

// Place returns a short location label: "STATE, USA" for US contacts, the
// country otherwise, or "" when unknown.
func Place(q domain.QSO) string {
	country := q.Text(domain.FieldCountry)
	if country == "UNITED STATES OF AMERICA" {
		return q.Text(domain.FieldState) + ", USA"
	}
	return strings.ReplaceAll(country, "REPUBLIC OF", "R.O.")
}

func tallies(m map[string]int) []Tally {
	out := make([]Tally, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Tally{Name: name, Count: m[name]})
	}
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
