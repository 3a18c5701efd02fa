package proxyhead

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// MalformedPolicy selects what an invalid header takes down.
type MalformedPolicy int

const (
	// MalformedDropConn closes only the offending connection; Accept
	// returns the error and the listener keeps serving. The default.
	MalformedDropConn MalformedPolicy = iota

	// MalformedCloseListener additionally closes the listener.
	MalformedCloseListener
)

// Config controls how a Listener treats incoming headers.
type Config struct {
	// HeaderTimeout bounds how long Accept waits for a complete header on a
	// new connection. Zero means no limit.
	HeaderTimeout time.Duration

	// RequireHeader rejects connections whose leading bytes are not a PROXY
	// header, instead of falling back to the transport peer address.
	RequireHeader bool

	MalformedPolicy MalformedPolicy
}

// Listener wraps a net.Listener, reading the PROXY header from every
// accepted connection before returning it.
type Listener struct {
	net.Listener

	cfg Config
}

// NewListener wraps ln. The zero Config waits forever for headers and lets
// header-less connections through untouched.
func NewListener(ln net.Listener, cfg Config) *Listener {
	return &Listener{Listener: ln, cfg: cfg}
}

// Accept waits for the next connection and consumes its PROXY header. The
// returned net.Conn is a *Conn reporting the decoded endpoints.
//
// A malformed header, a header timeout, or a missing-but-required header
// closes that connection and returns a classified error; the listener itself
// stays usable unless Config.MalformedPolicy says otherwise. Callers should
// check the error type before giving up on the accept loop.
func (l *Listener) Accept() (net.Conn, error) {
	c, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	pc, err := WrapConn(c, l.cfg)
	if err != nil {
		c.Close()
		if l.cfg.MalformedPolicy == MalformedCloseListener && isMalformed(err) {
			l.Listener.Close()
		}
		return nil, err
	}
	return pc, nil
}

func isMalformed(err error) bool {
	var mErr *MalformedError
	return errors.As(err, &mErr) || errors.Is(err, ErrHeaderTimeout)
}

// WrapConn reads the PROXY header from c and returns the wrapped connection.
// Listener.Accept calls it for every connection; callers that drive their own
// accept loop can use it directly. On error the connection is left open and
// owned by the caller.
func WrapConn(c net.Conn, cfg Config) (*Conn, error) {
	if cfg.HeaderTimeout > 0 {
		if err := c.SetReadDeadline(time.Now().Add(cfg.HeaderTimeout)); err != nil {
			return nil, err
		}
		defer c.SetReadDeadline(time.Time{})
	}

	hdr, rest, err := readHeader(c)
	if err != nil {
		if !errors.Is(err, ErrNoHeader) {
			return nil, err
		}
		if cfg.RequireHeader {
			return nil, ErrHeaderRequired
		}
		// No header present: rest holds everything read, all of it payload.
	}
	return &Conn{Conn: c, hdr: hdr, leftover: rest}, nil
}

// readHeader drives Decode over a growing scratch buffer until it reaches a
// decision. On ErrNoHeader the returned leftover holds all bytes read.
func readHeader(c net.Conn) (*Header, []byte, error) {
	buf := make([]byte, 0, 256)
	var readErr error
	for {
		hdr, n, err := Decode(buf)
		switch {
		case err == nil:
			return hdr, leftover(buf[n:]), nil
		case errors.Is(err, ErrNoHeader):
			return nil, leftover(buf), err
		case !errors.Is(err, ErrIncomplete):
			return nil, nil, err
		}

		// Decode needs more bytes but the last read already failed.
		if readErr != nil {
			var nerr net.Error
			switch {
			case errors.Is(readErr, os.ErrDeadlineExceeded),
				errors.As(readErr, &nerr) && nerr.Timeout():
				return nil, nil, ErrHeaderTimeout
			case errors.Is(readErr, io.EOF):
				// Peer closed before completing the header.
				return nil, nil, malformed(ReasonTruncated)
			default:
				return nil, nil, fmt.Errorf("read PROXY header: %w", readErr)
			}
		}

		if len(buf) == cap(buf) {
			grown := make([]byte, len(buf), 2*cap(buf))
			copy(grown, buf)
			buf = grown
		}
		var rn int
		rn, readErr = c.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+rn]
	}
}

func leftover(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
