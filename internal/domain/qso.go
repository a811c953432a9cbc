package domain

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/couchcryptid/qsolog/internal/adif"
)

// referenceDate stands in for the date when a time field is checked alone.
const referenceDate = "20000101"

// QSO is one normalized contact. Identity (callsign, band, start) is fixed at
// construction. All other fields, known or not, are reachable by name.
type QSO struct {
	call   string
	band   int
	start  time.Time
	fields map[string]Value
	// implicit holds fields filled from the default table rather than read.
	implicit map[string]bool
}

// NewQSO normalizes a raw record. It fails with an error matching
// ErrMalformedRecord when an identity field is missing, and additionally
// ErrFieldCoercion when any field does not parse. No partial QSO is returned.
func NewQSO(raw adif.Record) (QSO, error) {
	q := QSO{
		fields:   make(map[string]Value, len(raw)+len(defaultFields)+len(derivedFields)),
		implicit: make(map[string]bool, len(defaultFields)),
	}
	for name, v := range defaultFields {
		if _, ok := raw[name]; !ok {
			q.fields[name] = v
			q.implicit[name] = true
		}
	}
	for name, text := range raw {
		if derivedFields[name] {
			continue
		}
		coerce, ok := coercions[name]
		if !ok {
			q.fields[name] = StringValue(text)
			continue
		}
		v, err := coerce(text)
		if err != nil {
			return QSO{}, coercionError(name, text, err)
		}
		q.fields[name] = v
	}

	if strings.TrimSpace(q.Text(FieldCall)) == "" {
		return QSO{}, missingField(FieldCall)
	}
	band, ok := q.fields[FieldBand]
	if !ok {
		return QSO{}, missingField(FieldBand)
	}
	if q.Text(FieldDate) == "" {
		return QSO{}, missingField(FieldDate)
	}
	if err := validate(q.fields); err != nil {
		return QSO{}, err
	}

	start, err := combineStamp(q.Text(FieldDate), q.Text(FieldTimeOn))
	if err != nil {
		return QSO{}, coercionError(FieldDate, q.Text(FieldDate), err)
	}

	q.call = q.Text(FieldCall)
	q.band, _ = band.Int()
	q.start = start
	q.derive()
	return q, nil
}

// validate checks each field that feeds a derived value on its own, so that
// fields combined from different records always derive cleanly.
func validate(fields map[string]Value) error {
	for _, name := range []string{FieldDate, FieldDateOff, FieldQSLDate} {
		if v, ok := fields[name]; ok && v.String() != "" {
			if _, err := combineStamp(v.String(), ""); err != nil {
				return coercionError(name, v.String(), err)
			}
		}
	}
	for _, name := range []string{FieldTimeOn, FieldTimeOff} {
		if v, ok := fields[name]; ok {
			if _, err := combineStamp(referenceDate, v.String()); err != nil {
				return coercionError(name, v.String(), err)
			}
		}
	}
	for _, name := range []string{FieldMyGrid, FieldGrid} {
		if v, ok := fields[name]; ok && v.String() != "" {
			if _, err := ParseLocator(v.String()); err != nil {
				return coercionError(name, v.String(), err)
			}
		}
	}
	return nil
}

// derive recomputes every derived field from the current field set. Inputs
// were checked by validate, so a field that fails to parse here is absent.
func (q *QSO) derive() {
	for name := range derivedFields {
		delete(q.fields, name)
	}
	q.fields[FieldStart] = TimeValue(q.start)

	if date := q.Text(FieldDateOff); date != "" {
		if end, err := combineStamp(date, q.Text(FieldTimeOff)); err == nil {
			q.fields[FieldEnd] = TimeValue(end)
		}
	}
	if date := q.Text(FieldQSLDate); date != "" {
		if at, err := combineStamp(date, ""); err == nil {
			q.fields[FieldConfirmedAt] = TimeValue(at)
		}
	}

	src, srcErr := ParseLocator(q.Text(FieldMyGrid))
	dst, dstErr := ParseLocator(q.Text(FieldGrid))
	if srcErr != nil || dstErr != nil {
		return
	}
	path := PathBetween(src, dst)
	q.fields[FieldDistance] = IntValue(path.Distance)
	q.fields[FieldBearing] = IntValue(path.Bearing)
	q.fields[FieldBearingRad] = FloatValue(path.BearingRad)
	q.fields[FieldCardinal] = StringValue(path.Cardinal)
}

func (q QSO) Call() string     { return q.call }
func (q QSO) Band() int        { return q.band }
func (q QSO) Start() time.Time { return q.start }

// End returns the end of the contact when the log recorded one.
func (q QSO) End() (time.Time, bool) {
	v, ok := q.fields[FieldEnd]
	if !ok {
		return time.Time{}, false
	}
	return v.Time()
}

// Confirmed reports whether a QSL was received.
func (q QSO) Confirmed() bool {
	b, _ := q.fields[FieldQSLRcvd].Bool()
	return b
}

// Path returns the derived great-circle vector. It is present only when
// both locator fields are.
func (q QSO) Path() (Vector, bool) {
	dist, ok := q.fields[FieldDistance]
	if !ok {
		return Vector{}, false
	}
	v := Vector{Cardinal: q.Text(FieldCardinal)}
	v.Distance, _ = dist.Int()
	v.Bearing, _ = q.fields[FieldBearing].Int()
	v.BearingRad, _ = q.fields[FieldBearingRad].Float()
	return v, true
}

// Get looks up a field by name.
func (q QSO) Get(name string) (Value, bool) {
	v, ok := q.fields[name]
	return v, ok
}

// Text returns the text form of a field, or "" when absent.
func (q QSO) Text(name string) string {
	v, ok := q.fields[name]
	if !ok {
		return ""
	}
	return v.String()
}

// Has reports whether the field is present.
func (q QSO) Has(name string) bool {
	_, ok := q.fields[name]
	return ok
}

// Names returns the present field names in sorted order.
func (q QSO) Names() []string {
	return slices.Sorted(maps.Keys(q.fields))
}

// Tags returns the stored fields as raw text, ready to be written back as
// tags. Derived and defaulted fields are left out since parsing restores them.
func (q QSO) Tags() adif.Record {
	rec := make(adif.Record, len(q.fields))
	for name, v := range q.fields {
		if derivedFields[name] || q.implicit[name] {
			continue
		}
		rec[name] = v.String()
	}
	return rec
}

// Map returns every field as a plain Go value.
func (q QSO) Map() map[string]any {
	m := make(map[string]any, len(q.fields))
	for name, v := range q.fields {
		m[name] = v.Any()
	}
	return m
}

func (q QSO) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Map())
}

// Equal reports whether both QSOs carry the same identity and fields.
func (q QSO) Equal(o QSO) bool {
	return q.call == o.call &&
		q.band == o.band &&
		q.start.Equal(o.start) &&
		maps.EqualFunc(q.fields, o.fields, Value.Equal) &&
		maps.Equal(q.implicit, o.implicit)
}
