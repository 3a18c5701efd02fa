package proxyhead

import "errors"

var (
	// ErrNoHeader is returned by Decode when the leading bytes match neither
	// protocol signature. The bytes belong to the application payload.
	ErrNoHeader = errors.New("proxyhead: no PROXY header")

	// ErrIncomplete is returned by Decode when the buffer holds a proper
	// prefix of a possible header and more bytes are needed to decide.
	ErrIncomplete = errors.New("proxyhead: incomplete PROXY header")

	// ErrHeaderTimeout is returned by Accept when a complete header did not
	// arrive within Config.HeaderTimeout.
	ErrHeaderTimeout = errors.New("proxyhead: timeout reading PROXY header")

	// ErrHeaderRequired is returned by Accept when Config.RequireHeader is
	// set and the connection did not start with a PROXY header.
	ErrHeaderRequired = errors.New("proxyhead: PROXY header required")
)

// Reasons reported by MalformedError.
const (
	ReasonBadVersion  = "bad version"
	ReasonBadCommand  = "bad command"
	ReasonBadFamily   = "bad address family"
	ReasonBadProtocol = "bad transport protocol"
	ReasonTruncated   = "truncated address block"
	ReasonBadTLV      = "bad TLV framing"
	ReasonChecksum    = "checksum mismatch"
	ReasonLineLength  = "line too long"
	ReasonBadLine     = "malformed line"
	ReasonBadPort     = "bad port"
	ReasonBadAddress  = "bad address literal"
)

// MalformedError indicates bytes that match a PROXY protocol signature but
// violate its grammar, length, or checksum rules.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return "proxyhead: malformed PROXY header: " + e.Reason
}

func malformed(reason string) error { return &MalformedError{Reason: reason} }
