package packed

import (
	"strconv"

	"github.com/spf13/cast"
)

// Value is a dual-typed packed-array element: either a signed integer
// or a raw byte string, never both.
type Value struct {
	IsInt bool
	Int   int64
	Bytes []byte
}

// IntValue returns an integer-encoded Value.
func IntValue(n int64) Value {
	return Value{IsInt: true, Int: n}
}

// BytesValue returns a Value holding a copy of b. If b is the
// canonical decimal rendering of an int64 (no leading zero, no sign
// on zero, within range), it is stored as an integer instead -- the
// same space optimization a packed ziplist-style array applies when a
// pushed string "looks like" a number.
func BytesValue(b []byte) Value {
	if n, ok := tryInteger(b); ok {
		return IntValue(n)
	}
	return Value{Bytes: append([]byte(nil), b...)}
}

func tryInteger(b []byte) (int64, bool) {
	if len(b) == 0 || len(b) > 20 {
		return 0, false
	}
	n, err := cast.ToInt64E(string(b))
	if err != nil {
		return 0, false
	}
	// reject forms that wouldn't round-trip byte-for-byte, e.g. "007" or "+6"
	if strconv.FormatInt(n, 10) != string(b) {
		return 0, false
	}
	return n, true
}

// Int64 returns the value as an integer, if it is one.
func (v Value) Int64() (int64, bool) {
	if v.IsInt {
		return v.Int, true
	}
	return 0, false
}

// String renders the value as a string, converting an integer to its
// canonical decimal form.
func (v Value) String() string {
	if v.IsInt {
		return cast.ToString(v.Int)
	}
	return string(v.Bytes)
}

// Raw returns the value's byte representation, converting an integer
// to its canonical decimal form.
func (v Value) Raw() []byte {
	if v.IsInt {
		return []byte(cast.ToString(v.Int))
	}
	return v.Bytes
}
