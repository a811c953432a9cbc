package adif

import (
	"errors"
	"fmt"
)

var (
	ErrNoTag           = errors.New("adif: no tag found")
	ErrUnterminatedTag = errors.New("adif: unterminated tag")
	ErrShortValue      = errors.New("adif: value shorter than declared length")
)

// fragmentLen bounds how much raw text a SyntaxError carries for diagnosis.
const fragmentLen = 40

// SyntaxError reports a tag that could not be read. Offsets after it cannot
// be trusted, so the scan of the current source stops.
type SyntaxError struct {
	Offset   int
	Fragment string
	Err      error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d near %q", e.Err, e.Offset, e.Fragment)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func newSyntaxError(data string, off int, err error) *SyntaxError {
	frag := data[off:]
	if len(frag) > fragmentLen {
		frag = frag[:fragmentLen]
	}
	return &SyntaxError{Offset: off, Fragment: frag, Err: err}
}
