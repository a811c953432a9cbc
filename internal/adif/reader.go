package adif

import (
	"errors"
	"strconv"
	"strings"
)

const (
	commentMarker = "//"
	tagEOH        = "eoh"
	tagEOR        = "eor"
)

// Tag is one `<name>` or `<name:length>value` unit read from a stream.
type Tag struct {
	Name     string
	Value    string
	HasValue bool
	// Advance is the number of bytes the caller must skip to reach the next
	// tag, including any comment lines consumed before this one.
	Advance int
}

// Record maps lower-cased field names to their raw text. Unknown fields are
// kept verbatim.
type Record map[string]string

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// NextTag reads the first tag in s. Comment lines are skipped wherever they
// appear, and any other text between tags is ignored.
func NextTag(s string) (Tag, error) {
	start := tagStart(s)
	if start < 0 {
		return Tag{}, ErrNoTag
	}
	rel := strings.IndexByte(s[start:], '>')
	if rel < 0 {
		return Tag{}, ErrUnterminatedTag
	}
	end := start + rel

	name, length := splitSpecifier(s[start+1 : end])
	tag := Tag{Name: name, Advance: end + 1}
	if length > 0 {
		if length > len(s)-(end+1) {
			return Tag{}, ErrShortValue
		}
		tag.Value = s[end+1 : end+1+length]
		tag.HasValue = true
		tag.Advance += length
	}
	return tag, nil
}

// tagStart returns the index of the first '<' in s that is not on a comment
// line, or -1. The start of s counts as the start of a line.
func tagStart(s string) int {
	off := 0
	for {
		lt := strings.IndexByte(s[off:], '<')
		if lt < 0 {
			return -1
		}
		lt += off
		line := s[strings.LastIndexByte(s[:lt], '\n')+1 : lt]
		if !strings.HasPrefix(strings.TrimLeft(line, " \t\r"), commentMarker) {
			return lt
		}
		nl := strings.IndexByte(s[lt:], '\n')
		if nl < 0 {
			return -1
		}
		off = lt + nl + 1
	}
}

// skipComments returns the number of bytes taken by leading whitespace and
// whole comment lines.
func skipComments(s string) int {
	off := 0
	for {
		rest := strings.TrimLeft(s[off:], " \t\r\n")
		if !strings.HasPrefix(rest, commentMarker) {
			return off
		}
		off = len(s) - len(rest)
		nl := strings.IndexByte(s[off:], '\n')
		if nl < 0 {
			return len(s)
		}
		off += nl + 1
	}
}

// splitSpecifier parses the text between the angle brackets. A name followed
// by `:length` (and optionally `:type`) declares a value; anything else is a
// valueless tag whose name is the whole specifier.
func splitSpecifier(spec string) (string, int) {
	name, rest, ok := strings.Cut(spec, ":")
	if !ok {
		return spec, 0
	}
	lenText, _, _ := strings.Cut(rest, ":")
	n, err := strconv.Atoi(strings.TrimSpace(lenText))
	if err != nil || n < 0 {
		return spec, 0
	}
	return name, n
}

// ReadRecord consumes tags from s until an `<eor>` tag or the end of the
// tags. It returns the fields read and the number of bytes consumed. On error
// the returned offset points at the tag that failed.
func ReadRecord(s string) (Record, int, error) {
	rec := Record{}
	off := 0
	for strings.IndexByte(s[off:], '<') >= 0 {
		tag, err := NextTag(s[off:])
		if errors.Is(err, ErrNoTag) {
			// only commented-out tags remain
			break
		}
		if err != nil {
			return rec, off, err
		}
		off += tag.Advance
		name := strings.ToLower(tag.Name)
		if name == tagEOR {
			break
		}
		rec[name] = tag.Value
	}
	return rec, off, nil
}

// HeaderLen returns the length of the header preceding the first record: the
// bytes up to and including `<eoh>`. It returns 0 when the stream has no
// header, i.e. a record terminator is reached before any `<eoh>`.
func HeaderLen(s string) int {
	off := 0
	for strings.IndexByte(s[off:], '<') >= 0 {
		tag, err := NextTag(s[off:])
		if err != nil {
			return 0
		}
		off += tag.Advance
		switch strings.ToLower(tag.Name) {
		case tagEOH:
			return off
		case tagEOR:
			return 0
		}
	}
	return 0
}

// Scanner iterates over the records of a whole ADIF document.
type Scanner struct {
	data   string
	off    int
	recOff int
	rec    Record
	err    error
}

// NewScanner returns a Scanner positioned after the document header.
func NewScanner(data string) *Scanner {
	return &Scanner{data: data, off: HeaderLen(data)}
}

// Scan advances to the next record. It returns false at the end of the data
// or after a syntax error, which Err then reports.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	s.off += skipComments(s.data[s.off:])
	s.off = len(s.data) - len(strings.TrimLeft(s.data[s.off:], " \t\r\n"))
	if strings.IndexByte(s.data[s.off:], '<') < 0 {
		return false
	}
	rec, n, err := ReadRecord(s.data[s.off:])
	if err != nil {
		s.err = newSyntaxError(s.data, s.off+n, err)
		return false
	}
	if n == 0 {
		return false
	}
	s.recOff = s.off
	s.off += n
	s.rec = rec
	return true
}

// Record returns the record read by the last call to Scan.
func (s *Scanner) Record() Record { return s.rec }

// Offset returns the byte offset of the first tag of the current record.
func (s *Scanner) Offset() int { return s.recOff }

// Err returns the syntax error that stopped the scan, if any.
func (s *Scanner) Err() error { return s.err }
