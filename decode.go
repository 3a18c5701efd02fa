package proxyhead

import "bytes"

var (
	sigV1 = []byte("PROXY ")
	sigV2 = []byte{0x0D, 0x0A, 0x0D, 0x0A, 0x00, 0x0D, 0x0A, 0x51, 0x55, 0x49, 0x54, 0x0A}
)

// Decode parses a PROXY protocol v1 or v2 header from the beginning of buf.
// It performs no I/O: buf is whatever the caller has read from the stream so
// far.
//
// On success it returns the decoded header and the exact number of bytes the
// header occupied; buf[n:] is application payload. Otherwise the error is
// ErrNoHeader (the bytes definitively match neither signature), ErrIncomplete
// (undecidable until more bytes arrive), or a *MalformedError.
func Decode(buf []byte) (h *Header, n int, err error) {
	if bytes.HasPrefix(buf, sigV2) {
		return decodeV2(buf)
	}
	if bytes.HasPrefix(buf, sigV1) {
		return decodeV1(buf)
	}
	// Still a prefix of one of the signatures?
	if bytes.HasPrefix(sigV2, buf) || bytes.HasPrefix(sigV1, buf) {
		return nil, 0, ErrIncomplete
	}
	return nil, 0, ErrNoHeader
}
