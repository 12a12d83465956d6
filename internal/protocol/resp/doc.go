// Package resp implements the RESP wire format used by respkv.
//
// The codec is split in two halves:
//
//   - Parse (and Parser.Parse) decodes exactly one Frame from the front of
//     a byte slice and reports how many bytes it consumed. When the slice
//     ends before the frame does, ErrIncomplete is returned and nothing is
//     consumed; the caller appends more bytes and retries from the start.
//   - AppendFrame (and Frame.Bytes) encode a Frame back to wire bytes.
//
// Malformed input is reported with errors wrapping ErrProtocol. Inputs that
// exceed the configured size limits additionally wrap ErrLimitExceeded.
package resp
