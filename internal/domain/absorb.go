package domain

import "maps"

// Absorb folds from into into and returns the result. Identity is kept from
// into. Every other field supplied by from replaces into's value; fields only
// present on into survive. Derived fields are recomputed from the result.
func Absorb(into, from QSO) QSO { return combine(into, from, true) }

// Backfill is Absorb with into's fields taking precedence: from contributes
// only the fields into lacks.
func Backfill(into, from QSO) QSO { return combine(into, from, false) }

func combine(into, from QSO, overwrite bool) QSO {
	out := QSO{
		call:     into.call,
		band:     into.band,
		start:    into.start,
		fields:   maps.Clone(into.fields),
		implicit: maps.Clone(into.implicit),
	}
	for name, v := range from.fields {
		if identityFields[name] || derivedFields[name] {
			continue
		}
		_, exists := out.fields[name]
		switch {
		case !exists:
		case from.implicit[name]:
			// A defaulted value never displaces one that is present.
			continue
		case out.implicit[name]:
		case !overwrite:
			continue
		}
		out.fields[name] = v
		if from.implicit[name] {
			out.implicit[name] = true
		} else {
			delete(out.implicit, name)
		}
	}
	out.derive()
	return out
}
