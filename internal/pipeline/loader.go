package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/qsolog/internal/adif"
	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/observability"
)

// Diagnostic describes a record dropped while loading, or the point at which
// a source scan halted on a syntax error.
type Diagnostic struct {
	Source string
	Offset int
	// Fields is the raw record. It is nil for syntax errors.
	Fields adif.Record
	Err    error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: offset %d: %v", d.Source, d.Offset, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Halted reports whether the diagnostic stopped the scan of its source.
func (d Diagnostic) Halted() bool {
	var syn *adif.SyntaxError
	return errors.As(d.Err, &syn)
}

// Source holds the QSOs read from one input and the records it dropped.
type Source struct {
	Name        string
	QSOs        []domain.QSO
	Diagnostics []Diagnostic
}

// Loader reads ADIF sources into QSOs.
type Loader struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader.
func NewLoader(logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{logger: logger, metrics: metrics}
}

// LoadFile reads the file at path. The file is closed before LoadFile
// returns. Only I/O failures are returned as errors; bad records become
// diagnostics on the Source.
func (l *Loader) LoadFile(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	return l.LoadReader(path, f)
}

// LoadReader reads one source from r, naming it name in diagnostics.
func (l *Loader) LoadReader(name string, r io.Reader) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Source{}, fmt.Errorf("read source %s: %w", name, err)
	}
	l.metrics.FilesLoaded.Inc()

	src := Source{Name: name}
	sc := adif.NewScanner(string(data))
	for sc.Scan() {
		rec := sc.Record()
		q, err := domain.NewQSO(rec)
		if err != nil {
			l.drop(&src, Diagnostic{Source: name, Offset: sc.Offset(), Fields: rec, Err: err})
			continue
		}
		src.QSOs = append(src.QSOs, q)
	}
	l.metrics.RecordsParsed.Add(float64(len(src.QSOs)))

	if err := sc.Err(); err != nil {
		var syn *adif.SyntaxError
		offset := 0
		if errors.As(err, &syn) {
			offset = syn.Offset
			l.logger.Error("source scan halted",
				"source", name,
				"offset", syn.Offset,
				"fragment", syn.Fragment,
				"error", syn.Err,
			)
		}
		src.Diagnostics = append(src.Diagnostics, Diagnostic{Source: name, Offset: offset, Err: err})
		l.metrics.RecordsDropped.WithLabelValues(observability.ReasonSyntax).Inc()
	}

	l.logger.Debug("source loaded",
		"source", name,
		"qsos", len(src.QSOs),
		"dropped", len(src.Diagnostics),
	)
	return src, nil
}

func (l *Loader) drop(src *Source, d Diagnostic) {
	reason := observability.ReasonMalformed
	if errors.Is(d.Err, domain.ErrFieldCoercion) {
		reason = observability.ReasonCoercion
	}
	l.metrics.RecordsDropped.WithLabelValues(reason).Inc()
	l.logger.Warn("record dropped",
		"source", d.Source,
		"offset", d.Offset,
		"error", d.Err,
		"fields", d.Fields,
	)
	src.Diagnostics = append(src.Diagnostics, d)
}
