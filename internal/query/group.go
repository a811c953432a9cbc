// Package query provides read-only views over a merged QSO set: filtering,
// field census, sorting and summary statistics. Nothing here modifies the
// QSOs it is given.
package query

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/qsolog/internal/domain"
)

// Filter selects QSOs by exact match. Empty fields match everything.
type Filter struct {
	Call string // station_callsign, the logging station
	Mode string
	Grid string // my_gridsquare
}

// Match reports whether q satisfies every set field of f.
func (f Filter) Match(q domain.QSO) bool {
	if f.Call != "" && q.Text(domain.FieldStationCall) != f.Call {
		return false
	}
	if f.Mode != "" && q.Text(domain.FieldMode) != f.Mode {
		return false
	}
	if f.Grid != "" && q.Text(domain.FieldMyGrid) != f.Grid {
		return false
	}
	return true
}

// Group is a filtered QSO list together with its confirmed subset.
type Group struct {
	QSOs []domain.QSO
	QSLs []domain.QSO
}

// NewGroup applies f to qsos. Input order is preserved.
func NewGroup(qsos []domain.QSO, f Filter) Group {
	var g Group
	for _, q := range qsos {
		if !f.Match(q) {
			continue
		}
		g.QSOs = append(g.QSOs, q)
		if q.Confirmed() {
			g.QSLs = append(g.QSLs, q)
		}
	}
	return g
}

func (g Group) Len() int { return len(g.QSOs) }

// SortBy returns a copy of qsos ordered by the named fields in turn. A QSO
// missing a field sorts before one that has it.
func SortBy(qsos []domain.QSO, fields ...string) []domain.QSO {
	out := slices.Clone(qsos)
	slices.SortStableFunc(out, func(a, b domain.QSO) int {
		for _, name := range fields {
			if c := compareField(a, b, name); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func compareField(a, b domain.QSO, name string) int {
	av, aok := a.Get(name)
	bv, bok := b.Get(name)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return av.Compare(bv)
}

// Rows projects each QSO onto the named fields as text. Missing fields are
// empty strings.
func Rows(qsos []domain.QSO, fields []string) [][]string {
	rows := make([][]string, 0, len(qsos))
	for _, q := range qsos {
		row := make([]string, len(fields))
		for i, name := range fields {
			row[i] = q.Text(name)
		}
		rows = append(rows, row)
	}
	return rows
}

// MostRecent returns up to n QSOs, latest start first.
func MostRecent(qsos []domain.QSO, n int) []domain.QSO {
	out := slices.Clone(qsos)
	slices.SortStableFunc(out, func(a, b domain.QSO) int {
		return b.Start().Compare(a.Start())
	})
	return head(out, n)
}

// MostDistant returns up to n QSOs with a known path, farthest first.
func MostDistant(qsos []domain.QSO, n int) []domain.QSO {
	out := make([]domain.QSO, 0, len(qsos))
	for _, q := range qsos {
		if _, ok := q.Path(); ok {
			out = append(out, q)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.QSO) int {
		pa, _ := a.Path()
		pb, _ := b.Path()
		return cmp.Compare(pb.Distance, pa.Distance)
	})
	return head(out, n)
}

func head(qsos []domain.QSO, n int) []domain.QSO {
	if n >= 0 && len(qsos) > n {
		return qsos[:n]
	}
	return qsos
}
