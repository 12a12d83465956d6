package resp

import (
	"bytes"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Frame.
type Kind uint8

const (
	// KindNull is the zero Kind so that the zero Frame is Null.
	KindNull Kind = iota
	KindSimple
	KindError
	KindInteger
	KindBulk
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindSimple:
		return "simple"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulk:
		return "bulk"
	case KindArray:
		return "array"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Frame is one value on the wire.
//
// Only the field matching Kind is meaningful: Str for Simple and Error,
// Int for Integer, Bulk for Bulk and Array for Array.
type Frame struct {
	Kind  Kind
	Str   string
	Int   uint64
	Bulk  []byte
	Array []Frame
}

func Simple(s string) Frame { return Frame{Kind: KindSimple, Str: s} }

func Error(s string) Frame { return Frame{Kind: KindError, Str: s} }

func Integer(n uint64) Frame { return Frame{Kind: KindInteger, Int: n} }

func Bulk(b []byte) Frame { return Frame{Kind: KindBulk, Bulk: b} }

func BulkString(s string) Frame { return Frame{Kind: KindBulk, Bulk: []byte(s)} }

func Null() Frame { return Frame{} }

func Array(items ...Frame) Frame {
	if items == nil {
		items = []Frame{}
	}
	return Frame{Kind: KindArray, Array: items}
}

// Command builds a request frame: an Array of Bulk arguments.
func Command(args ...string) Frame {
	items := make([]Frame, len(args))
	for i, a := range args {
		items[i] = BulkString(a)
	}
	return Array(items...)
}

// IsNull reports whether f is the Null sentinel.
func (f Frame) IsNull() bool { return f.Kind == KindNull }

// Text returns the payload of a Simple or Bulk frame as a string.
func (f Frame) Text() (string, bool) {
	switch f.Kind {
	case KindSimple:
		return f.Str, true
	case KindBulk:
		return string(f.Bulk), true
	default:
		return "", false
	}
}

// Equal reports whether f and other hold the same value.
// An empty Bulk equals a nil Bulk; Null never equals an empty Bulk.
func (f Frame) Equal(other Frame) bool {
	if f.Kind != other.Kind {
		return false
	}
	switch f.Kind {
	case KindSimple, KindError:
		return f.Str == other.Str
	case KindInteger:
		return f.Int == other.Int
	case KindBulk:
		return bytes.Equal(f.Bulk, other.Bulk)
	case KindArray:
		if len(f.Array) != len(other.Array) {
			return false
		}
		for i := range f.Array {
			if !f.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders f for humans, in the style of redis-cli.
func (f Frame) String() string {
	switch f.Kind {
	case KindNull:
		return "(nil)"
	case KindSimple:
		return f.Str
	case KindError:
		return "(error) " + f.Str
	case KindInteger:
		return "(integer) " + strconv.FormatUint(f.Int, 10)
	case KindBulk:
		return strconv.Quote(string(f.Bulk))
	case KindArray:
		if len(f.Array) == 0 {
			return "(empty array)"
		}
		var sb strings.Builder
		for i, item := range f.Array {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(strconv.Itoa(i + 1))
			sb.WriteString(") ")
			sb.WriteString(item.String())
		}
		return sb.String()
	default:
		return f.Kind.String()
	}
}
