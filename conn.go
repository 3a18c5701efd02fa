package proxyhead

import "net"

// Conn is a net.Conn whose RemoteAddr and LocalAddr report the original
// endpoints decoded from a PROXY header. When the connection carried no
// header, or the header declared an unknown family, both fall back to the
// underlying transport addresses.
//
// Bytes read past the header while detecting it are replayed, in order and
// exactly once, before reads reach the underlying connection. Writes, close,
// and deadlines delegate untouched.
type Conn struct {
	net.Conn

	hdr      *Header
	leftover []byte
}

func (c *Conn) Read(p []byte) (int, error) {
	if len(c.leftover) > 0 {
		n := copy(p, c.leftover)
		c.leftover = c.leftover[n:]
		if len(c.leftover) == 0 {
			c.leftover = nil
		}
		return n, nil
	}
	return c.Conn.Read(p)
}

// RemoteAddr returns the original client address from the PROXY header, or
// the transport peer address when none is known.
func (c *Conn) RemoteAddr() net.Addr {
	if c.hdr != nil && c.hdr.Src != nil {
		return c.hdr.Src
	}
	return c.Conn.RemoteAddr()
}

// LocalAddr returns the original destination address from the PROXY header,
// or the transport local address when none is known.
func (c *Conn) LocalAddr() net.Addr {
	if c.hdr != nil && c.hdr.Dst != nil {
		return c.hdr.Dst
	}
	return c.Conn.LocalAddr()
}

// HasProxyHeader reports whether the connection started with a valid PROXY
// header. It is true even for headers that declared an unknown family.
func (c *Conn) HasProxyHeader() bool { return c.hdr != nil }

// ProxyHeader returns the decoded header, or nil when the connection carried
// none.
func (c *Conn) ProxyHeader() *Header { return c.hdr }
