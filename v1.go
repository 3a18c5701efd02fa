package proxyhead

import (
	"bytes"
	"net"
	"strconv"
	"strings"
)

// maxLenV1 is the longest possible v1 line, CRLF included.
const maxLenV1 = 107

var crlf = []byte("\r\n")

func decodeV1(buf []byte) (*Header, int, error) {
	limit := len(buf)
	if limit > maxLenV1 {
		limit = maxLenV1
	}
	end := bytes.Index(buf[:limit], crlf)
	if end < 0 {
		if len(buf) >= maxLenV1 {
			return nil, 0, malformed(ReasonLineLength)
		}
		return nil, 0, ErrIncomplete
	}
	n := end + len(crlf)

	// Past "PROXY ", already matched by Decode.
	proto, rest, _ := strings.Cut(string(buf[len(sigV1):end]), " ")
	switch proto {
	case "UNKNOWN":
		// The rest of the line is ignored, whatever it holds.
		return &Header{Family: FamilyUnknown}, n, nil
	case "TCP4", "TCP6":
	default:
		return nil, 0, malformed(ReasonBadLine)
	}

	fields := strings.Split(rest, " ")
	if len(fields) != 4 {
		return nil, 0, malformed(ReasonBadLine)
	}
	srcIP, err := parseV1IP(fields[0], proto)
	if err != nil {
		return nil, 0, err
	}
	dstIP, err := parseV1IP(fields[1], proto)
	if err != nil {
		return nil, 0, err
	}
	srcPort, err := parseV1Port(fields[2])
	if err != nil {
		return nil, 0, err
	}
	dstPort, err := parseV1Port(fields[3])
	if err != nil {
		return nil, 0, err
	}

	fam := FamilyIPv4
	if proto == "TCP6" {
		fam = FamilyIPv6
	}
	return &Header{
		Family: fam,
		Src:    &net.TCPAddr{IP: srcIP, Port: srcPort},
		Dst:    &net.TCPAddr{IP: dstIP, Port: dstPort},
	}, n, nil
}

// parseV1IP parses an address literal and checks it against the declared
// protocol: dotted-quad only for TCP4, hex-colon only for TCP6.
func parseV1IP(s, proto string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, malformed(ReasonBadAddress)
	}
	isV6 := strings.Contains(s, ":")
	if proto == "TCP4" && (isV6 || ip.To4() == nil) {
		return nil, malformed(ReasonBadAddress)
	}
	if proto == "TCP6" && !isV6 {
		return nil, malformed(ReasonBadAddress)
	}
	return ip, nil
}

// parseV1Port parses a decimal port in [0, 65535]. Leading zeros are not
// allowed, other than the literal "0".
func parseV1Port(s string) (int, error) {
	if len(s) > 1 && s[0] == '0' {
		return 0, malformed(ReasonBadPort)
	}
	p, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, malformed(ReasonBadPort)
	}
	return int(p), nil
}
