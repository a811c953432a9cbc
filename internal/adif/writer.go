package adif

import (
	"bufio"
	"io"
	"sort"
	"strconv"
)

// AppendTag appends `<name:len>value` to b. An empty value is written as a
// valueless tag.
func AppendTag(b []byte, name, value string) []byte {
	b = append(b, '<')
	b = append(b, name...)
	if value != "" {
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(len(value)), 10)
	}
	b = append(b, '>')
	return append(b, value...)
}

// Writer emits ADIF documents.
type Writer struct {
	w   *bufio.Writer
	buf []byte
}

// NewWriter returns a Writer buffering output to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes a free-text comment line, the given header fields in
// name order, and the `<eoh>` terminator.
func (w *Writer) WriteHeader(comment string, fields Record) error {
	w.buf = append(w.buf[:0], comment...)
	w.buf = append(w.buf, '\n')
	for _, name := range sortedNames(fields) {
		w.buf = AppendTag(w.buf, name, fields[name])
		w.buf = append(w.buf, '\n')
	}
	w.buf = append(w.buf, "<eoh>\n\n"...)
	_, err := w.w.Write(w.buf)
	return err
}

// WriteRecord writes one record, fields in name order, followed by `<eor>`.
func (w *Writer) WriteRecord(rec Record) error {
	w.buf = w.buf[:0]
	for _, name := range sortedNames(rec) {
		w.buf = AppendTag(w.buf, name, rec[name])
		w.buf = append(w.buf, '\n')
	}
	w.buf = append(w.buf, "<eor>\n\n"...)
	_, err := w.w.Write(w.buf)
	return err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

func sortedNames(rec Record) []string {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
