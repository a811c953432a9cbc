// Package domain models amateur radio contacts (QSOs) read from ADIF logs.
//
// # Normalization
//
// A raw record is a map of lowercase tag names to text. [NewQSO] turns it
// into a [QSO].
//
// Defaults come first: fields listed in the default table are filled in when
// the record omits them. Today that is qsl_rcvd = N.
//
// Known fields are then parsed into typed values; everything else is kept
// as text:
//
//	band                             digits only, "40m" -> 40
//	qsl_rcvd                         true only for "Y"
//	freq                             float
//	rst_sent rst_rcvd                int
//	cqz ituz dxcc                    int
//	my_cq_zone my_itu_zone my_dxcc   int
//	tx_pwr                           text
//
// Finally computed fields are added from the parsed ones:
//
//	dateon    qso_date + time_on
//	dateoff   qso_date_off + time_off, when qso_date_off is present
//	dateqsl   qslrdate at midnight, when present
//	dist      great-circle miles from my_gridsquare to gridsquare
//	azdegs    initial bearing, whole degrees
//	azrads    initial bearing, radians
//	cardinal  16-point compass label of azdegs
//
// The path fields appear only when both locators are present.
//
// A record missing its callsign, band or date, or with any field that does
// not parse, is rejected with an error matching [ErrMalformedRecord].
// Coercion failures additionally match [ErrFieldCoercion].
//
// # Time format
//
// Dates are YYYYMMDD. Times are HHMMSS or HHMM, always UTC. An empty time
// means midnight.
//
// # Locators
//
// Grid squares are 4- or 6-character Maidenhead locators. A 4-character
// locator is taken at the center of its square (subsquare NN). Characters
// past the sixth are ignored.
//
// # Merging
//
// [Absorb] and [Backfill] fold one QSO into another without touching either
// input. The result keeps the first QSO's identity and recomputes every
// derived field. Values filled from the default table never displace a value
// that the log actually carried.
package domain
