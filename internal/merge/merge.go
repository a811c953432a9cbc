// Package merge reconciles QSOs from one or more logs into a deduplicated set.
//
// Records are pooled per source in caller order, then partitioned by
// callsign and band and sorted by start time. A single left-to-right pass
// absorbs each record into its successor when their start times are less
// than the fuzz window apart. The pass is not repeated: a merged record is
// compared only with the next slot, so a chain of close records can leave
// more than one survivor.
//
// Field precedence follows source order, not time order. When a record from
// a later source meets one from an earlier source, the later source's values
// win on conflict whichever of the two started first.
package merge

import (
	"cmp"
	"slices"
	"time"

	"github.com/couchcryptid/qsolog/internal/domain"
)

// DefaultFuzzWindow is the largest start-time gap, exclusive, at which two
// records are taken to be the same contact.
const DefaultFuzzWindow = 30 * time.Minute

// entry is a pooled QSO with its position in source order.
type entry struct {
	qso domain.QSO
	seq int
}

// Result summarizes a merge pass.
type Result struct {
	QSOs     []domain.QSO
	Absorbed int
}

// Merge deduplicates qsos as a single source.
func Merge(qsos []domain.QSO, window time.Duration) []domain.QSO {
	p := NewPool(false)
	p.AddSource(qsos)
	return p.Merge(window).QSOs
}

// mergePartition runs the single pass over one callsign's entries. It sorts
// in place and returns the survivors in (band, start) order.
func mergePartition(entries []entry, window time.Duration) ([]entry, int) {
	slices.SortStableFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.qso.Band(), b.qso.Band()); c != 0 {
			return c
		}
		return a.qso.Start().Compare(b.qso.Start())
	})

	slots := make([]*entry, len(entries))
	for i := range entries {
		slots[i] = &entries[i]
	}

	absorbed := 0
	for i := 0; i+1 < len(slots); i++ {
		a, b := slots[i], slots[i+1]
		if a.qso.Band() != b.qso.Band() {
			continue
		}
		if b.qso.Start().Sub(a.qso.Start()) >= window {
			continue
		}
		merged := combine(*a, *b)
		slots[i+1] = &merged
		slots[i] = nil
		absorbed++
	}

	out := make([]entry, 0, len(slots)-absorbed)
	for _, e := range slots {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out, absorbed
}

// combine folds b into a. The earlier slot keeps its identity; whichever
// entry came later in source order wins field conflicts.
func combine(a, b entry) entry {
	if b.seq >= a.seq {
		return entry{qso: domain.Absorb(a.qso, b.qso), seq: b.seq}
	}
	return entry{qso: domain.Backfill(a.qso, b.qso), seq: a.seq}
}
