// Package adif reads and writes the ADIF tagged-record format used to
// exchange amateur-radio contact logs.
//
// A document is an optional free-text header closed by `<eoh>`, followed by
// records. Each record is a run of `<name:length>value` tags closed by
// `<eor>`. Tag names are case-insensitive. Lengths count bytes, so values may
// contain line breaks. Lines starting with `//` are comments.
package adif
