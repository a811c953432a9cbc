package domain

import (
	"cmp"
	"strconv"
	"time"
)

// Kind identifies the type held by a Value.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

// Value is a typed field value.
type Value struct {
	kind Kind
	str  string
	num  int
	flt  float64
	flag bool
	at   time.Time
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func IntValue(n int) Value        { return Value{kind: KindInt, num: n} }
func FloatValue(f float64) Value  { return Value{kind: KindFloat, flt: f} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, flag: b} }
func TimeValue(t time.Time) Value { return Value{kind: KindTime, at: t.UTC()} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Int() (int, bool) { return v.num, v.kind == KindInt }

// Float also accepts integer values.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.flt, true
	case KindInt:
		return float64(v.num), true
	}
	return 0, false
}

func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

func (v Value) Time() (time.Time, bool) { return v.at, v.kind == KindTime }

// String returns the text form of the value as it is written back to a tag:
// booleans are Y/N, times RFC 3339.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.num)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'f', -1, 64)
	case KindBool:
		if v.flag {
			return "Y"
		}
		return "N"
	case KindTime:
		return v.at.Format(time.RFC3339)
	default:
		return v.str
	}
}

// Any returns the value as a plain Go value for JSON and YAML encoding.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.flag
	case KindTime:
		return v.at.Format(time.RFC3339)
	default:
		return v.str
	}
}

// Equal reports whether v and o hold the same kind and value.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.Compare(o) == 0
}

// Compare orders values of the same kind naturally. Values of different
// kinds order by kind.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return cmp.Compare(v.kind, o.kind)
	}
	switch v.kind {
	case KindInt:
		return cmp.Compare(v.num, o.num)
	case KindFloat:
		return cmp.Compare(v.flt, o.flt)
	case KindBool:
		switch {
		case v.flag == o.flag:
			return 0
		case o.flag:
			return -1
		default:
			return 1
		}
	case KindTime:
		return v.at.Compare(o.at)
	default:
		return cmp.Compare(v.str, o.str)
	}
}
