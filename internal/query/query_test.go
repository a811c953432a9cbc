package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/qsolog/internal/adif"
	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/query"
)

func qso(t *testing.T, call, timeOn string, kv ...string) domain.QSO {
	t.Helper()
	rec := adif.Record{
		domain.FieldCall:   call,
		domain.FieldBand:   "20m",
		domain.FieldDate:   "20200101",
		domain.FieldTimeOn: timeOn,
	}
	for i := 0; i+1 < len(kv); i += 2 {
		rec[kv[i]] = kv[i+1]
	}
	q, err := domain.NewQSO(rec)
	require.NoError(t, err)
	return q
}

func calls(qsos []domain.QSO) []string {
	out := make([]string, len(qsos))
	for i, q := range qsos {
		out[i] = q.Call()
	}
	return out
}

func fixture(t *testing.T) []domain.QSO {
	t.Helper()
	return []domain.QSO{
		qso(t, "K1ABC", "120000",
			domain.FieldStationCall, "W5CAL", domain.FieldMode, "FT8", domain.FieldMyGrid, "CM87VL",
			domain.FieldGrid, "FN42", domain.FieldQSLRcvd, "Y",
			domain.FieldCountry, "UNITED STATES OF AMERICA", domain.FieldState, "MA"),
		qso(t, "W2XYZ", "130000",
			domain.FieldStationCall, "W5CAL", domain.FieldMode, "SSB",
			domain.FieldCountry, "UNITED STATES OF AMERICA", domain.FieldState, "NY"),
		qso(t, "JA1AAA", "140000",
			domain.FieldStationCall, "W5CAL", domain.FieldMode, "FT8", domain.FieldMyGrid, "CM87VL",
			domain.FieldGrid, "PM95", domain.FieldQSLRcvd, "Y", domain.FieldCountry, "JAPAN"),
		qso(t, "KH6BB", "150000",
			domain.FieldStationCall, "N0PE", domain.FieldMode, "FT8",
			domain.FieldCountry, "HAWAII", domain.FieldState, "HI"),
	}
}

func TestNewGroup(t *testing.T) {
	qsos := fixture(t)

	tests := []struct {
		name      string
		filter    query.Filter
		wantCalls []string
		wantQSLs  []string
	}{
		{"no filter", query.Filter{}, []string{"K1ABC", "W2XYZ", "JA1AAA", "KH6BB"}, []string{"K1ABC", "JA1AAA"}},
		{"station", query.Filter{Call: "W5CAL"}, []string{"K1ABC", "W2XYZ", "JA1AAA"}, []string{"K1ABC", "JA1AAA"}},
		{"mode", query.Filter{Mode: "FT8"}, []string{"K1ABC", "JA1AAA", "KH6BB"}, []string{"K1ABC", "JA1AAA"}},
		{"all three", query.Filter{Call: "W5CAL", Mode: "FT8", Grid: "CM87VL"}, []string{"K1ABC", "JA1AAA"}, []string{"K1ABC", "JA1AAA"}},
		{"no match", query.Filter{Mode: "CW"}, []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := query.NewGroup(qsos, tt.filter)
			assert.Equal(t, tt.wantCalls, calls(g.QSOs))
			assert.Equal(t, tt.wantQSLs, calls(g.QSLs))
			assert.Equal(t, len(tt.wantCalls), g.Len())
		})
	}
}

func TestNewGroup_DoesNotModifyInput(t *testing.T) {
	qsos := fixture(t)
	_ = query.NewGroup(qsos, query.Filter{Mode: "SSB"})
	assert.Equal(t, []string{"K1ABC", "W2XYZ", "JA1AAA", "KH6BB"}, calls(qsos))
}

func TestSortBy(t *testing.T) {
	qsos := fixture(t)

	t.Run("missing values first", func(t *testing.T) {
		got := query.SortBy(qsos, domain.FieldDistance)
		assert.Equal(t, []string{"W2XYZ", "KH6BB", "K1ABC", "JA1AAA"}, calls(got))
	})

	t.Run("several fields", func(t *testing.T) {
		got := query.SortBy(qsos, domain.FieldMode, domain.FieldStart)
		assert.Equal(t, []string{"K1ABC", "JA1AAA", "KH6BB", "W2XYZ"}, calls(got))
	})

	t.Run("input untouched", func(t *testing.T) {
		_ = query.SortBy(qsos, domain.FieldCall)
		assert.Equal(t, "K1ABC", qsos[0].Call())
	})
}

func TestRows(t *testing.T) {
	rows := query.Rows(fixture(t)[:2], []string{domain.FieldCall, domain.FieldState, "missing"})
	assert.Equal(t, [][]string{
		{"K1ABC", "MA", ""},
		{"W2XYZ", "NY", ""},
	}, rows)
}

func TestCensus(t *testing.T) {
	census := query.Census(fixture(t))

	byName := make(map[string]query.FieldCount, len(census))
	for _, fc := range census {
		byName[fc.Name] = fc
	}
	assert.Equal(t, 4, byName[domain.FieldCall].Count)
	assert.InDelta(t, 100.0, byName[domain.FieldCall].Percent, 1e-9)
	assert.Equal(t, 2, byName[domain.FieldDistance].Count)
	assert.InDelta(t, 50.0, byName[domain.FieldDistance].Percent, 1e-9)
	assert.Equal(t, 3, byName[domain.FieldState].Count)

	for i := 1; i < len(census); i++ {
		assert.Less(t, census[i-1].Name, census[i].Name)
	}
}

func TestCensus_Empty(t *testing.T) {
	assert.Empty(t, query.Census(nil))
}

func TestGroup_Stats(t *testing.T) {
	s := query.NewGroup(fixture(t), query.Filter{}).Stats()

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Confirmed)
	assert.InDelta(t, 50.0, s.ConfirmedPercent, 1e-9)
	assert.Equal(t, []query.Tally{
		{Name: "HAWAII", Count: 1},
		{Name: "JAPAN", Count: 1},
		{Name: "UNITED STATES OF AMERICA", Count: 2},
	}, s.Countries)
	assert.Equal(t, []query.Tally{
		{Name: "HI", Count: 1},
		{Name: "MA", Count: 1},
		{Name: "NY", Count: 1},
	}, s.States)
}

func TestGroup_Stats_Empty(t *testing.T) {
	s := query.NewGroup(nil, query.Filter{}).Stats()
	assert.Zero(t, s.Total)
	assert.Zero(t, s.ConfirmedPercent)
	assert.Empty(t, s.Countries)
}

func TestMostRecent(t *testing.T) {
	got := query.MostRecent(fixture(t), 2)
	assert.Equal(t, []string{"KH6BB", "JA1AAA"}, calls(got))

	assert.Len(t, query.MostRecent(fixture(t), 10), 4)
}

func TestMostDistant(t *testing.T) {
	g := query.NewGroup(fixture(t), query.Filter{})
	got := query.MostDistant(g.QSLs, 5)
	assert.Equal(t, []string{"JA1AAA", "K1ABC"}, calls(got))
}

func TestPlace(t *testing.T) {
	tests := []struct {
		name    string
		country string
		state   string
		want    string
	}{
		{"us state", "UNITED STATES OF AMERICA", "MA", "MA, USA"},
		{"republic shortened", "REPUBLIC OF KOREA", "", "R.O. KOREA"},
		{"plain country", "JAPAN", "", "JAPAN"},
		{"unknown", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := []string{}
			if tt.country != "" {
				kv = append(kv, domain.FieldCountry, tt.country)
			}
			if tt.state != "" {
				kv = append(kv, domain.FieldState, tt.state)
			}
			assert.Equal(t, tt.want, query.Place(qso(t, "K1ABC", "120000", kv...)))
		})
	}
}
