package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/merge"
	"github.com/couchcryptid/qsolog/internal/observability"
)

// Options tunes a run.
type Options struct {
	// KnownCallsOnly admits records from the second and later sources only
	// for callsigns already seen.
	KnownCallsOnly bool
	// FuzzWindow is the merge window. Zero means merge.DefaultFuzzWindow.
	FuzzWindow time.Duration
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{KnownCallsOnly: true, FuzzWindow: merge.DefaultFuzzWindow}
}

// Result is the outcome of a run: the merged QSOs plus a diagnostic for
// every record that was dropped along the way.
type Result struct {
	QSOs        []domain.QSO
	Diagnostics []Diagnostic
	Parsed      int // records normalized across all sources
	Skipped     int // records left out by the known-callsign filter
	Absorbed    int // records folded into a neighbor
}

// Pipeline loads sources in order, pools them and merges the pool.
type Pipeline struct {
	loader  *Loader
	logger  *slog.Logger
	metrics *observability.Metrics
	opts    Options

	ready  atomic.Bool
	mu     sync.RWMutex
	result Result
}

// New creates a Pipeline with the given observability and options.
func New(logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.FuzzWindow <= 0 {
		opts.FuzzWindow = merge.DefaultFuzzWindow
	}
	return &Pipeline{
		loader:  NewLoader(logger, metrics),
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// CheckReadiness returns nil once a run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("qso log has not been loaded yet")
	}
	return nil
}

// Run reads every path in order, later paths taking precedence, and merges
// the result. Dropped records do not fail the run; they are returned as
// diagnostics. An unreadable file or a cancelled context does.
func (p *Pipeline) Run(ctx context.Context, paths []string) (Result, error) {
	start := time.Now()
	pool := merge.NewPool(p.opts.KnownCallsOnly)

	var res Result
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		src, err := p.loader.LoadFile(path)
		if err != nil {
			return Result{}, fmt.Errorf("load %s: %w", path, err)
		}
		admitted, skipped := pool.AddSource(src.QSOs)
		res.Parsed += len(src.QSOs)
		res.Skipped += skipped
		res.Diagnostics = append(res.Diagnostics, src.Diagnostics...)

		p.logger.Info("source pooled",
			"source", path,
			"admitted", admitted,
			"skipped", skipped,
			"dropped", len(src.Diagnostics),
		)
	}

	merged := pool.Merge(p.opts.FuzzWindow)
	res.QSOs = merged.QSOs
	res.Absorbed = merged.Absorbed

	p.metrics.RecordsSkipped.Add(float64(res.Skipped))
	p.metrics.RecordsAbsorbed.Add(float64(res.Absorbed))
	p.metrics.QSOsMerged.Set(float64(len(res.QSOs)))
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())

	p.logger.Info("merge complete",
		"sources", len(paths),
		"parsed", res.Parsed,
		"skipped", res.Skipped,
		"absorbed", res.Absorbed,
		"qsos", len(res.QSOs),
		"dropped", len(res.Diagnostics),
	)

	p.mu.Lock()
	p.result = res
	p.mu.Unlock()
	p.ready.Store(true)
	return res, nil
}

// Result returns the outcome of the most recent completed run.
func (p *Pipeline) Result() Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result
}

// QSOs returns the merged QSOs of the most recent completed run.
func (p *Pipeline) QSOs() []domain.QSO {
	return p.Result().QSOs
}
