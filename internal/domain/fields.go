package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names with special handling. Every other field is kept as text.
const (
	FieldCall        = "call"
	FieldBand        = "band"
	FieldDate        = "qso_date"
	FieldTimeOn      = "time_on"
	FieldDateOff     = "qso_date_off"
	FieldTimeOff     = "time_off"
	FieldQSLDate     = "qslrdate"
	FieldQSLRcvd     = "qsl_rcvd"
	FieldFreq        = "freq"
	FieldMode        = "mode"
	FieldTxPwr       = "tx_pwr"
	FieldRSTSent     = "rst_sent"
	FieldRSTRcvd     = "rst_rcvd"
	FieldStationCall = "station_callsign"
	FieldGrid        = "gridsquare"
	FieldMyGrid      = "my_gridsquare"
	FieldCountry     = "country"
	FieldState       = "state"
	FieldMyCQZone    = "my_cq_zone"
	FieldMyITUZone   = "my_itu_zone"
	FieldMyDXCC      = "my_dxcc"
	FieldCQZone      = "cqz"
	FieldITUZone     = "ituz"
	FieldDXCC        = "dxcc"
)

// Derived field names. They are computed from other fields at construction
// and never written back to tags.
const (
	FieldStart       = "dateon"
	FieldEnd         = "dateoff"
	FieldConfirmedAt = "dateqsl"
	FieldDistance    = "dist"
	FieldBearing     = "azdegs"
	FieldBearingRad  = "azrads"
	FieldCardinal    = "cardinal"
)

var derivedFields = map[string]bool{
	FieldStart:       true,
	FieldEnd:         true,
	FieldConfirmedAt: true,
	FieldDistance:    true,
	FieldBearing:     true,
	FieldBearingRad:  true,
	FieldCardinal:    true,
}

// identityFields are kept from the surviving record when two records merge.
var identityFields = map[string]bool{
	FieldCall:   true,
	FieldBand:   true,
	FieldDate:   true,
	FieldTimeOn: true,
	FieldStart:  true,
}

// IsDerived reports whether name is a computed field.
func IsDerived(name string) bool { return derivedFields[name] }

// defaultFields supplies values for fields absent from a raw record. It is
// consulted once, before coercion.
var defaultFields = map[string]Value{
	FieldQSLRcvd: BoolValue(false),
}

type coercer func(string) (Value, error)

// coercions lists the fields parsed into non-text values.
var coercions = map[string]coercer{
	FieldBand:      parseBand,
	FieldTxPwr:     parseText,
	FieldQSLRcvd:   parseFlag,
	FieldFreq:      parseFloat,
	FieldRSTSent:   parseInt,
	FieldRSTRcvd:   parseInt,
	FieldMyCQZone:  parseInt,
	FieldMyITUZone: parseInt,
	FieldMyDXCC:    parseInt,
	FieldCQZone:    parseInt,
	FieldITUZone:   parseInt,
	FieldDXCC:      parseInt,
}

func parseText(s string) (Value, error) { return StringValue(s), nil }

// parseBand keeps only the digits of a band designator: "40m" -> 40.
func parseBand(s string) (Value, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return Value{}, fmt.Errorf("no digits in band %q", s)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return Value{}, err
	}
	return IntValue(n), nil
}

// parseFlag is true only for "Y".
func parseFlag(s string) (Value, error) {
	return BoolValue(strings.TrimSpace(s) == "Y"), nil
}

func parseFloat(s string) (Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(f), nil
}

func parseInt(s string) (Value, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Value{}, err
	}
	return IntValue(n), nil
}
