package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsorb(t *testing.T) {
	first := mustQSO(t, withFields(baseRecord(), FieldRSTSent, "59", FieldMode, "SSB"))
	second := mustQSO(t, withFields(baseRecord(),
		FieldTimeOn, "121000",
		FieldQSLRcvd, "Y",
		FieldMode, "CW",
	))

	t.Run("later values win and identity is kept", func(t *testing.T) {
		got := Absorb(first, second)

		assert.Equal(t, time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC), got.Start())
		assert.Equal(t, "120000", got.Text(FieldTimeOn))
		assert.True(t, got.Confirmed())
		assert.Equal(t, "CW", got.Text(FieldMode))
		assert.Equal(t, "59", got.Text(FieldRSTSent))
	})

	t.Run("backfill keeps existing values", func(t *testing.T) {
		got := Backfill(first, second)

		assert.Equal(t, "SSB", got.Text(FieldMode))
		assert.Equal(t, "59", got.Text(FieldRSTSent))
		assert.True(t, got.Confirmed(), "defaulted flag gives way to the logged one")
	})

	t.Run("inputs are not modified", func(t *testing.T) {
		_ = Absorb(first, second)
		assert.False(t, first.Confirmed())
		assert.Equal(t, "SSB", first.Text(FieldMode))
		assert.Equal(t, "CW", second.Text(FieldMode))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := Absorb(first, second)
		twice := Absorb(once, second)
		assert.True(t, once.Equal(twice))
	})
}

func TestAbsorb_DefaultDoesNotDisplace(t *testing.T) {
	confirmed := mustQSO(t, withFields(baseRecord(), FieldQSLRcvd, "Y"))
	plain := mustQSO(t, withFields(baseRecord(), FieldTimeOn, "121000"))

	got := Absorb(confirmed, plain)
	assert.True(t, got.Confirmed())

	// Once merged, the flag is a logged value and survives re-serialization.
	assert.Equal(t, "Y", got.Tags()[FieldQSLRcvd])
}

func TestAbsorb_ExplicitNoOverridesLoggedYes(t *testing.T) {
	confirmed := mustQSO(t, withFields(baseRecord(), FieldQSLRcvd, "Y"))
	revoked := mustQSO(t, withFields(baseRecord(), FieldTimeOn, "121000", FieldQSLRcvd, "N"))

	assert.False(t, Absorb(confirmed, revoked).Confirmed())
	assert.True(t, Backfill(confirmed, revoked).Confirmed())
}

func TestAbsorb_RecomputesDerived(t *testing.T) {
	bare := mustQSO(t, baseRecord())
	located := mustQSO(t, withFields(baseRecord(),
		FieldTimeOn, "121000",
		FieldMyGrid, testMyGrid,
		FieldGrid, "JK00AA",
		FieldDateOff, testDate,
		FieldTimeOff, "122000",
	))

	got := Absorb(bare, located)

	path, ok := got.Path()
	require.True(t, ok)
	assert.Equal(t, 690, path.Distance)
	assert.Equal(t, "N", path.Cardinal)

	end, ok := got.End()
	require.True(t, ok)
	assert.Equal(t, time.Date(2020, 1, 1, 12, 20, 0, 0, time.UTC), end)

	start, _ := got.Get(FieldStart)
	ts, _ := start.Time()
	assert.Equal(t, bare.Start(), ts)
}

func TestAbsorb_MixedLocatorsDerive(t *testing.T) {
	mine := mustQSO(t, withFields(baseRecord(), FieldMyGrid, testMyGrid))
	theirs := mustQSO(t, withFields(baseRecord(), FieldTimeOn, "121000", FieldGrid, "KJ00AA"))

	got := Absorb(mine, theirs)

	path, ok := got.Path()
	require.True(t, ok)
	assert.Equal(t, 1381, path.Distance)
	assert.Equal(t, "E", path.Cardinal)
}
