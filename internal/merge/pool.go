package merge

import (
	"time"

	"github.com/couchcryptid/qsolog/internal/domain"
)

// Pool accumulates QSOs from sources added in precedence order. It is not
// safe for concurrent use.
type Pool struct {
	knownCallsOnly bool
	sources        int
	size           int
	calls          []string
	byCall         map[string][]entry
}

// NewPool returns an empty pool. With knownCallsOnly set, sources after the
// first contribute records only for callsigns already in the pool.
func NewPool(knownCallsOnly bool) *Pool {
	return &Pool{
		knownCallsOnly: knownCallsOnly,
		byCall:         make(map[string][]entry),
	}
}

// AddSource pools the QSOs of one source. Later sources take precedence over
// earlier ones on conflicting fields.
func (p *Pool) AddSource(qsos []domain.QSO) (admitted, skipped int) {
	seq := p.sources
	p.sources++

	for _, q := range qsos {
		call := q.Call()
		existing, known := p.byCall[call]
		if !known {
			if seq > 0 && p.knownCallsOnly {
				skipped++
				continue
			}
			p.calls = append(p.calls, call)
		}
		p.byCall[call] = append(existing, entry{qso: q, seq: seq})
		admitted++
	}
	p.size += admitted
	return admitted, skipped
}

// Len returns the number of pooled records.
func (p *Pool) Len() int { return p.size }

// Sources returns the number of sources added.
func (p *Pool) Sources() int { return p.sources }

// Merge runs the fuzzy merge over everything pooled so far. The pool itself
// is left unchanged. Survivors are grouped by callsign in first-seen order,
// then ordered by band and start.
func (p *Pool) Merge(window time.Duration) Result {
	var res Result
	res.QSOs = make([]domain.QSO, 0, p.size)
	for _, call := range p.calls {
		entries := append([]entry(nil), p.byCall[call]...)
		survivors, absorbed := mergePartition(entries, window)
		for _, e := range survivors {
			res.QSOs = append(res.QSOs, e.qso)
		}
		res.Absorbed += absorbed
	}
	return res
}
