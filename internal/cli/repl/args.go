package repl

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("invalid argument(s): unbalanced quotes")

// splitArgs splits a line into arguments. Double quoted arguments accept
// the escapes \n \r \t \b \a \" \\ and \xHH; single quoted arguments only
// accept \'. A closing quote must be followed by a space or the end of
// the line.
func splitArgs(line string) ([]string, error) {
	var args []string
	i := 0
	for {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i >= len(line) {
			return args, nil
		}

		var (
			cur    strings.Builder
			quote  byte
			closed bool
		)
		if line[i] == '"' || line[i] == '\'' {
			quote = line[i]
			i++
		}

		for !closed {
			if i >= len(line) {
				if quote != 0 {
					return nil, ErrUnbalancedQuotes
				}
				break
			}
			c := line[i]
			switch {
			case quote == 0 && isSpace(c):
				closed = true
			case quote == 0:
				cur.WriteByte(c)
			case c == quote:
				if i+1 < len(line) && !isSpace(line[i+1]) {
					return nil, ErrUnbalancedQuotes
				}
				closed = true
			case c == '\\' && i+1 < len(line):
				n, consumed := unescape(quote, line[i+1:])
				cur.WriteString(n)
				i += consumed
			default:
				cur.WriteByte(c)
			}
			i++
		}
		args = append(args, cur.String())
	}
}

// unescape decodes the escape following a backslash. It returns the
// decoded text and how many bytes after the backslash it consumed.
func unescape(quote byte, rest string) (string, int) {
	if quote == '\'' {
		if rest[0] == '\'' {
			return "'", 1
		}
		return "\\", 0
	}

	switch rest[0] {
	case 'n':
		return "\n", 1
	case 'r':
		return "\r", 1
	case 't':
		return "\t", 1
	case 'b':
		return "\b", 1
	case 'a':
		return "\a", 1
	case 'x':
		if len(rest) >= 3 {
			if b, err := strconv.ParseUint(rest[1:3], 16, 8); err == nil {
				return string([]byte{byte(b)}), 3
			}
		}
	}
	return rest[:1], 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
