package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits to prevent DoS attacks.
const (
	// MaxArrayLen limits the number of elements in a RESP array.
	MaxArrayLen = 1024

	// MaxBulkLen is the hard cap on a single bulk string (512MB).
	// Servers usually configure something much smaller.
	MaxBulkLen = 512 * 1024 * 1024

	// MaxLineLen limits a single CRLF terminated line (64KB).
	MaxLineLen = 64 * 1024

	// MaxDepth limits array nesting.
	MaxDepth = 32
)

var (
	// ErrIncomplete means the buffer ends before the frame does.
	ErrIncomplete = errors.New("resp: incomplete frame")

	ErrProtocol      = errors.New("resp: protocol error")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// Parser decodes frames under a set of size limits.
// Zero fields fall back to the package defaults.
type Parser struct {
	MaxArrayLen int
	MaxBulkLen  int
	MaxLineLen  int
}

// DefaultParser uses the package level limits.
var DefaultParser = Parser{}

// Parse decodes one frame from the front of buf using DefaultParser.
func Parse(buf []byte) (Frame, int, error) {
	return DefaultParser.Parse(buf)
}

// Parse decodes one frame from the front of buf and returns it along with
// the number of bytes it occupied. buf is never modified.
//
// On ErrIncomplete the returned count is zero: the caller keeps buf as is,
// appends more input and calls Parse again.
func (p Parser) Parse(buf []byte) (Frame, int, error) {
	f, n, err := p.parse(buf, 0, 0)
	if err != nil {
		return Frame{}, 0, err
	}
	return f, n, nil
}

func (p Parser) parse(buf []byte, pos, depth int) (Frame, int, error) {
	if pos >= len(buf) {
		return Frame{}, 0, ErrIncomplete
	}

	tag := buf[pos]
	pos++

	switch tag {
	case '+', '-':
		line, next, err := p.readLine(buf, pos)
		if err != nil {
			return Frame{}, 0, err
		}
		if tag == '+' {
			return Simple(string(line)), next, nil
		}
		return Error(string(line)), next, nil

	case ':':
		line, next, err := p.readLine(buf, pos)
		if err != nil {
			return Frame{}, 0, err
		}
		n, err := strconv.ParseUint(string(line), 10, 64)
		if err != nil {
			return Frame{}, 0, fmt.Errorf("%w: invalid integer %q", ErrProtocol, line)
		}
		return Integer(n), next, nil

	case '$':
		n, next, err := p.readLength(buf, pos, p.maxBulkLen(), "bulk")
		if err != nil {
			return Frame{}, 0, err
		}
		if n < 0 {
			return Null(), next, nil
		}
		end := next + n
		if end+2 > len(buf) {
			return Frame{}, 0, ErrIncomplete
		}
		if buf[end] != '\r' || buf[end+1] != '\n' {
			return Frame{}, 0, fmt.Errorf("%w: invalid bulk terminator", ErrProtocol)
		}
		payload := make([]byte, n)
		copy(payload, buf[next:end])
		return Bulk(payload), end + 2, nil

	case '*':
		if depth >= MaxDepth {
			return Frame{}, 0, fmt.Errorf("%w: %w: nesting deeper than %d", ErrProtocol, ErrLimitExceeded, MaxDepth)
		}
		n, next, err := p.readLength(buf, pos, p.maxArrayLen(), "array")
		if err != nil {
			return Frame{}, 0, err
		}
		if n < 0 {
			return Null(), next, nil
		}
		items := make([]Frame, 0, n)
		for i := 0; i < n; i++ {
			var item Frame
			item, next, err = p.parse(buf, next, depth+1)
			if err != nil {
				return Frame{}, 0, err
			}
			items = append(items, item)
		}
		return Array(items...), next, nil

	default:
		return Frame{}, 0, fmt.Errorf("%w: unexpected type byte %q", ErrProtocol, tag)
	}
}

// readLine returns the bytes between pos and the next CRLF, and the offset
// just past the CRLF.
func (p Parser) readLine(buf []byte, pos int) ([]byte, int, error) {
	limit := p.maxLineLen()
	rest := buf[pos:]

	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		if len(rest) > limit+1 {
			return nil, 0, fmt.Errorf("%w: %w: line longer than %d", ErrProtocol, ErrLimitExceeded, limit)
		}
		return nil, 0, ErrIncomplete
	}
	if i > limit+1 {
		return nil, 0, fmt.Errorf("%w: %w: line longer than %d", ErrProtocol, ErrLimitExceeded, limit)
	}
	if i == 0 || rest[i-1] != '\r' {
		return nil, 0, fmt.Errorf("%w: missing CRLF", ErrProtocol)
	}
	return rest[:i-1], pos + i + 1, nil
}

// readLength parses a length line. -1 is returned for the null form.
func (p Parser) readLength(buf []byte, pos, limit int, what string) (int, int, error) {
	line, next, err := p.readLine(buf, pos)
	if err != nil {
		return 0, 0, err
	}
	if string(line) == "-1" {
		return -1, next, nil
	}
	n, err := strconv.ParseUint(string(line), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid %s length %q", ErrProtocol, what, line)
	}
	if n > uint64(limit) {
		return 0, 0, fmt.Errorf("%w: %w: %s length %d exceeds limit %d", ErrProtocol, ErrLimitExceeded, what, n, limit)
	}
	return int(n), next, nil
}

func (p Parser) maxArrayLen() int {
	if p.MaxArrayLen <= 0 {
		return MaxArrayLen
	}
	return p.MaxArrayLen
}

func (p Parser) maxBulkLen() int {
	if p.MaxBulkLen <= 0 || p.MaxBulkLen > MaxBulkLen {
		return MaxBulkLen
	}
	return p.MaxBulkLen
}

func (p Parser) maxLineLen() int {
	if p.MaxLineLen <= 0 {
		return MaxLineLen
	}
	return p.MaxLineLen
}
