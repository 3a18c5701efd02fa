package proxyhead

import "net"

// Family classifies the address kind of the original, pre-proxy connection.
type Family byte

const (
	// FamilyUnknown means no original endpoint is known: the sender used
	// "PROXY UNKNOWN", a v2 LOCAL command, or an unspecified v2 family or
	// transport. Consumers should fall back to the transport peer address.
	FamilyUnknown Family = iota

	// FamilyIPv4 for AF_INET endpoints.
	FamilyIPv4

	// FamilyIPv6 for AF_INET6 endpoints.
	FamilyIPv6

	// FamilyUnix for AF_UNIX endpoints.
	FamilyUnix
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	case FamilyUnix:
		return "unix"
	}
	return "unknown"
}

// Header holds the original connection endpoints relayed by a PROXY header.
type Header struct {
	Family Family

	// Src and Dst are the original client and destination addresses:
	// *net.TCPAddr or *net.UDPAddr for FamilyIPv4/FamilyIPv6, *net.UnixAddr
	// for FamilyUnix. Both are nil when Family is FamilyUnknown.
	Src net.Addr
	Dst net.Addr

	// TLVs holds the v2 extension records, in wire order. Record types are
	// preserved but not interpreted, except CRC32C which is verified during
	// decoding. Always nil for v1 headers.
	TLVs []TLV
}
