package proxyhead

import (
	"encoding/binary"
	"hash/crc32"
	"net"
	"strings"
)

// v2 version/command byte, low nibble.
const (
	cmdLocal = 0x0
	cmdProxy = 0x1
)

// v2 family/protocol byte nibbles.
const (
	famUnspec = 0x0
	famInet   = 0x1
	famInet6  = 0x2
	famUnix   = 0x3

	protoUnspec = 0x0
	protoStream = 0x1
	protoDgram  = 0x2
)

// Fixed address block sizes per family: addresses plus ports for INET and
// INET6, two 108-byte null-padded paths for UNIX.
const (
	addrLenInet  = 4 + 4 + 2 + 2
	addrLenInet6 = 16 + 16 + 2 + 2
	addrLenUnix  = 108 + 108
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func decodeV2(buf []byte) (*Header, int, error) {
	if len(buf) < 16 {
		return nil, 0, ErrIncomplete
	}
	verCmd := buf[12]
	if verCmd>>4 != 2 {
		return nil, 0, malformed(ReasonBadVersion)
	}
	cmd := verCmd & 0xf
	if cmd > cmdProxy {
		return nil, 0, malformed(ReasonBadCommand)
	}
	famProto := buf[13]
	fam := famProto >> 4
	if fam > famUnix {
		return nil, 0, malformed(ReasonBadFamily)
	}
	proto := famProto & 0xf
	if proto > protoDgram {
		return nil, 0, malformed(ReasonBadProtocol)
	}

	n := 16 + int(binary.BigEndian.Uint16(buf[14:16]))
	if len(buf) < n {
		return nil, 0, ErrIncomplete
	}
	block := buf[16:n]

	// LOCAL carries no endpoint information; the block (TLVs included) is
	// consumed but not interpreted. Same for unspecified family or
	// transport under PROXY.
	if cmd == cmdLocal || fam == famUnspec || proto == protoUnspec {
		return &Header{Family: FamilyUnknown}, n, nil
	}

	h := &Header{}
	var addrLen int
	switch fam {
	case famInet:
		addrLen = addrLenInet
		if len(block) < addrLen {
			return nil, 0, malformed(ReasonTruncated)
		}
		h.Family = FamilyIPv4
		h.Src = inetAddr(block[0:4], block[8:10], proto)
		h.Dst = inetAddr(block[4:8], block[10:12], proto)
	case famInet6:
		addrLen = addrLenInet6
		if len(block) < addrLen {
			return nil, 0, malformed(ReasonTruncated)
		}
		h.Family = FamilyIPv6
		h.Src = inetAddr(block[0:16], block[32:34], proto)
		h.Dst = inetAddr(block[16:32], block[34:36], proto)
	case famUnix:
		addrLen = addrLenUnix
		if len(block) < addrLen {
			return nil, 0, malformed(ReasonTruncated)
		}
		h.Family = FamilyUnix
		h.Src = unixAddr(block[0:108], proto)
		h.Dst = unixAddr(block[108:216], proto)
	}

	tlvs, err := parseTLVs(block[addrLen:])
	if err != nil {
		return nil, 0, err
	}
	h.TLVs = tlvs
	if err := verifyChecksum(buf[:n], 16+addrLen); err != nil {
		return nil, 0, err
	}
	return h, n, nil
}

// inetAddr copies an IP and big-endian port out of the address block. The
// returned address must not alias the caller's buffer.
func inetAddr(ip, port []byte, proto byte) net.Addr {
	ipCpy := make(net.IP, len(ip))
	copy(ipCpy, ip)
	p := int(binary.BigEndian.Uint16(port))
	if proto == protoDgram {
		return &net.UDPAddr{IP: ipCpy, Port: p}
	}
	return &net.TCPAddr{IP: ipCpy, Port: p}
}

func unixAddr(path []byte, proto byte) net.Addr {
	network := "unix"
	if proto == protoDgram {
		network = "unixgram"
	}
	return &net.UnixAddr{
		Net:  network,
		Name: strings.TrimRight(string(path), "\x00"),
	}
}

// verifyChecksum checks the CRC32C TLV, if present, against the full header
// with the checksum field itself zeroed. TLV framing has been validated
// already.
func verifyChecksum(hdr []byte, tlvStart int) error {
	for off := tlvStart; off < len(hdr); {
		valLen := int(binary.BigEndian.Uint16(hdr[off+1 : off+3]))
		if TLVType(hdr[off]) != TLVTypeCRC32C {
			off += 3 + valLen
			continue
		}
		if valLen != 4 {
			return malformed(ReasonChecksum)
		}
		want := binary.BigEndian.Uint32(hdr[off+3:])
		zeroed := make([]byte, len(hdr))
		copy(zeroed, hdr)
		clear(zeroed[off+3 : off+7])
		if crc32.Checksum(zeroed, castagnoli) != want {
			return malformed(ReasonChecksum)
		}
		return nil
	}
	return nil
}
