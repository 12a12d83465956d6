package resp

import "strconv"

// AppendFrame appends the wire encoding of f to dst and returns the
// extended slice.
//
// CR and LF inside Simple and Error text are replaced by spaces so the
// output is always a single well-formed frame.
func AppendFrame(dst []byte, f Frame) []byte {
	switch f.Kind {
	case KindSimple:
		dst = append(dst, '+')
		dst = appendLine(dst, f.Str)
	case KindError:
		dst = append(dst, '-')
		dst = appendLine(dst, f.Str)
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendUint(dst, f.Int, 10)
		dst = append(dst, '\r', '\n')
	case KindBulk:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(f.Bulk)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, f.Bulk...)
		dst = append(dst, '\r', '\n')
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(f.Array)), 10)
		dst = append(dst, '\r', '\n')
		for _, item := range f.Array {
			dst = AppendFrame(dst, item)
		}
	default:
		dst = append(dst, "$-1\r\n"...)
	}
	return dst
}

// Bytes returns the wire encoding of f.
func (f Frame) Bytes() []byte {
	return AppendFrame(nil, f)
}

func appendLine(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\r' || c == '\n' {
			c = ' '
		}
		dst = append(dst, c)
	}
	return append(dst, '\r', '\n')
}
