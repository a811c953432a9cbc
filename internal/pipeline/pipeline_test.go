package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/qsolog/internal/adif"
	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/observability"
	"github.com/couchcryptid/qsolog/internal/pipeline"
)

const header = "Exported by test\n<programid:4>test\n<eoh>\n\n"

// record renders tags in the given order, terminated by <eor>.
func record(kv ...string) string {
	var b []byte
	for i := 0; i+1 < len(kv); i += 2 {
		b = adif.AppendTag(b, kv[i], kv[i+1])
	}
	return string(b) + "<eor>\n"
}

func writeSource(t *testing.T, name string, records ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(header+strings.Join(records, "")), 0o600))
	return path
}

func contact(call, band, timeOn string, extra ...string) string {
	return record(append([]string{
		"call", call, "band", band, "qso_date", "20200101", "time_on", timeOn,
	}, extra...)...)
}

type summary struct {
	Call string
	Band int
	QSL  bool
	Mode string
}

func summarize(qsos []domain.QSO) []summary {
	out := make([]summary, 0, len(qsos))
	for _, q := range qsos {
		out = append(out, summary{Call: q.Call(), Band: q.Band(), QSL: q.Confirmed(), Mode: q.Text("mode")})
	}
	return out
}

func newPipeline(opts pipeline.Options) (*pipeline.Pipeline, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	return pipeline.New(observability.NewDiscardLogger(), metrics, opts), metrics
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	path := writeSource(t, "log.adi",
		contact("K1ABC", "40m", "120000"),
		contact("K1ABC", "40m", "121000", "qsl_rcvd", "Y"),
		contact("W2XYZ", "20m", "130000"),
	)

	p, metrics := newPipeline(pipeline.DefaultOptions())
	require.Error(t, p.CheckReadiness(context.Background()))

	res, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)

	want := []summary{
		{Call: "K1ABC", Band: 40, QSL: true},
		{Call: "W2XYZ", Band: 20},
	}
	if diff := cmp.Diff(want, summarize(res.QSOs)); diff != "" {
		t.Errorf("merged set mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 1, res.Absorbed)

	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.Len(t, p.QSOs(), 2)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FilesLoaded), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RecordsParsed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsAbsorbed), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.QSOsMerged), 0)
}

func TestPipeline_Run_MalformedRecordIsolation(t *testing.T) {
	bad := record("band", "40m", "qso_date", "20200101", "time_on", "120500")
	path := writeSource(t, "log.adi",
		contact("K1ABC", "40m", "120000"),
		bad,
		contact("W2XYZ", "20m", "130000", "rst_sent", "5x9"),
		contact("N0PE", "10m", "140000"),
	)

	p, metrics := newPipeline(pipeline.DefaultOptions())
	res, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, []summary{
		{Call: "K1ABC", Band: 40},
		{Call: "N0PE", Band: 10},
	}, summarize(res.QSOs))

	require.Len(t, res.Diagnostics, 2)

	missing := res.Diagnostics[0]
	assert.Equal(t, path, missing.Source)
	assert.ErrorIs(t, missing, domain.ErrMalformedRecord)
	assert.NotErrorIs(t, missing, domain.ErrFieldCoercion)
	assert.Equal(t, "40m", missing.Fields["band"])
	assert.Equal(t, len(header)+len(contact("K1ABC", "40m", "120000")), missing.Offset)
	assert.False(t, missing.Halted())

	coerce := res.Diagnostics[1]
	assert.ErrorIs(t, coerce, domain.ErrFieldCoercion)
	assert.ErrorIs(t, coerce, domain.ErrMalformedRecord)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsDropped.WithLabelValues(observability.ReasonMalformed)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsDropped.WithLabelValues(observability.ReasonCoercion)), 0)
}

func TestPipeline_Run_SyntaxErrorHaltsSource(t *testing.T) {
	first := writeSource(t, "broken.adi",
		contact("K1ABC", "40m", "120000"),
		"<call:50>short",
	)
	second := writeSource(t, "next.adi",
		contact("K1ABC", "40m", "121000", "qsl_rcvd", "Y"),
	)

	p, metrics := newPipeline(pipeline.DefaultOptions())
	res, err := p.Run(context.Background(), []string{first, second})
	require.NoError(t, err)

	require.Len(t, res.QSOs, 1)
	assert.True(t, res.QSOs[0].Confirmed(), "later sources still load")

	require.Len(t, res.Diagnostics, 1)
	diag := res.Diagnostics[0]
	assert.True(t, diag.Halted())
	assert.ErrorIs(t, diag, adif.ErrShortValue)
	assert.Nil(t, diag.Fields)

	var syn *adif.SyntaxError
	require.ErrorAs(t, diag, &syn)
	assert.Equal(t, "<call:50>short", syn.Fragment)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsDropped.WithLabelValues(observability.ReasonSyntax)), 0)
}

func TestPipeline_Run_OversizedLengthIsolated(t *testing.T) {
	first := writeSource(t, "hostile.adi",
		contact("W2XYZ", "20m", "130000"),
		"<call:9223372036854775807>K1ABC<eor>\n",
	)
	second := writeSource(t, "next.adi",
		contact("K1ABC", "40m", "121000"),
	)

	p, _ := newPipeline(pipeline.DefaultOptions())
	var res pipeline.Result
	require.NotPanics(t, func() {
		var err error
		res, err = p.Run(context.Background(), []string{first, second})
		require.NoError(t, err)
	})

	calls := make([]string, 0, len(res.QSOs))
	for _, q := range res.QSOs {
		calls = append(calls, q.Call())
	}
	assert.ElementsMatch(t, []string{"K1ABC", "W2XYZ"}, calls)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], adif.ErrShortValue)
}

func TestPipeline_Run_LaterFileWins(t *testing.T) {
	older := writeSource(t, "home.adi",
		contact("K1ABC", "40m", "121000", "mode", "SSB", "rst_sent", "57"),
	)
	newer := writeSource(t, "lotw.adi",
		contact("K1ABC", "40m", "120000", "mode", "CW", "qsl_rcvd", "Y"),
	)

	p, _ := newPipeline(pipeline.DefaultOptions())
	res, err := p.Run(context.Background(), []string{older, newer})
	require.NoError(t, err)

	require.Len(t, res.QSOs, 1)
	got := res.QSOs[0]
	assert.Equal(t, "CW", got.Text("mode"))
	assert.Equal(t, "57", got.Text("rst_sent"))
	assert.True(t, got.Confirmed())
}

func TestPipeline_Run_KnownCallsOnly(t *testing.T) {
	home := writeSource(t, "home.adi", contact("K1ABC", "40m", "120000"))
	lotw := writeSource(t, "lotw.adi",
		contact("K1ABC", "40m", "120500", "qsl_rcvd", "Y"),
		contact("W9NEW", "20m", "130000"),
	)

	t.Run("enabled", func(t *testing.T) {
		p, metrics := newPipeline(pipeline.DefaultOptions())
		res, err := p.Run(context.Background(), []string{home, lotw})
		require.NoError(t, err)

		assert.Equal(t, []summary{{Call: "K1ABC", Band: 40, QSL: true}}, summarize(res.QSOs))
		assert.Equal(t, 1, res.Skipped)
		assert.InDelta(t, 1, testutil.ToFloat64(metrics.RecordsSkipped), 0)
	})

	t.Run("disabled", func(t *testing.T) {
		p, _ := newPipeline(pipeline.Options{KnownCallsOnly: false})
		res, err := p.Run(context.Background(), []string{home, lotw})
		require.NoError(t, err)

		assert.Len(t, res.QSOs, 2)
		assert.Zero(t, res.Skipped)
	})
}

func TestPipeline_Run_FuzzWindowOption(t *testing.T) {
	path := writeSource(t, "log.adi",
		contact("K1ABC", "40m", "120000"),
		contact("K1ABC", "40m", "121000"),
	)

	p, _ := newPipeline(pipeline.Options{FuzzWindow: 5 * time.Minute})
	res, err := p.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Len(t, res.QSOs, 2)
}

func TestPipeline_Run_MissingFile(t *testing.T) {
	p, _ := newPipeline(pipeline.DefaultOptions())
	_, err := p.Run(context.Background(), []string{filepath.Join(t.TempDir(), "absent.adi")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_Cancelled(t *testing.T) {
	path := writeSource(t, "log.adi", contact("K1ABC", "40m", "120000"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _ := newPipeline(pipeline.DefaultOptions())
	_, err := p.Run(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_LoadReader(t *testing.T) {
	l := pipeline.NewLoader(observability.NewDiscardLogger(), observability.NewMetricsForTesting())

	src, err := l.LoadReader("inline", strings.NewReader(header+
		"// comment line with a <tag> in it\n"+
		contact("K1ABC", "40m", "1200")))
	require.NoError(t, err)

	assert.Equal(t, "inline", src.Name)
	require.Len(t, src.QSOs, 1)
	assert.Equal(t, time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC), src.QSOs[0].Start())
	assert.Empty(t, src.Diagnostics)
}

func TestLoader_EmptySource(t *testing.T) {
	l := pipeline.NewLoader(observability.NewDiscardLogger(), observability.NewMetricsForTesting())

	src, err := l.LoadReader("empty", strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, src.QSOs)
	assert.Empty(t, src.Diagnostics)
}

func TestDiagnostic_Error(t *testing.T) {
	d := pipeline.Diagnostic{Source: "a.adi", Offset: 42, Err: domain.ErrMalformedRecord}
	assert.Equal(t, "a.adi: offset 42: malformed record", d.Error())
}
