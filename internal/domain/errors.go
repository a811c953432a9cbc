package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord marks a record that cannot become a QSO.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrFieldCoercion marks a field whose text does not parse as its type.
	// Every coercion failure is also a malformed record.
	ErrFieldCoercion = errors.New("field coercion failed")
)

// RecordError describes why a raw record was rejected.
type RecordError struct {
	Field string
	Value string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: field %q: %v", ErrMalformedRecord, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: field %q = %q: %v", ErrMalformedRecord, e.Field, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Is makes every RecordError match ErrMalformedRecord.
func (e *RecordError) Is(target error) bool { return target == ErrMalformedRecord }

func missingField(name string) error {
	return &RecordError{Field: name, Err: errors.New("missing")}
}

func coercionError(name, value string, err error) error {
	return &RecordError{Field: name, Value: value, Err: fmt.Errorf("%w: %w", ErrFieldCoercion, err)}
}
