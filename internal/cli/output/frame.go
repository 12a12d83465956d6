package output

import (
	"unicode/utf8"

	"github.com/yndnr/respkv/internal/protocol/resp"
)

// Plain converts a reply into values that encode naturally as JSON or
// YAML. Null becomes nil and an error reply becomes {"error": message}.
// Bulk strings that are not valid UTF-8 stay []byte.
func Plain(f resp.Frame) any {
	switch f.Kind {
	case resp.KindSimple:
		return f.Str
	case resp.KindError:
		return map[string]string{"error": f.Str}
	case resp.KindInteger:
		return f.Int
	case resp.KindBulk:
		if utf8.Valid(f.Bulk) {
			return string(f.Bulk)
		}
		return f.Bulk
	case resp.KindArray:
		out := make([]any, len(f.Array))
		for i, item := range f.Array {
			out[i] = Plain(item)
		}
		return out
	default:
		return nil
	}
}

// plainValue unwraps frames passed directly or by pointer.
func plainValue(data any) any {
	switch v := data.(type) {
	case resp.Frame:
		return Plain(v)
	case *resp.Frame:
		if v == nil {
			return nil
		}
		return Plain(*v)
	default:
		return data
	}
}
