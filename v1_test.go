package proxyhead

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeV1(t *testing.T) {
	check := func(name, line string, fam Family, src, dst string) {
		t.Run(name, func(t *testing.T) {
			h, n, err := Decode([]byte(line))
			require.NoError(t, err)
			assert.Equal(t, len(line), n, "consumed bytes")
			assert.Equal(t, fam, h.Family)
			if fam == FamilyUnknown {
				assert.Nil(t, h.Src)
				assert.Nil(t, h.Dst)
				return
			}
			require.NotNil(t, h.Src)
			require.NotNil(t, h.Dst)
			assert.Equal(t, src, h.Src.String())
			assert.Equal(t, dst, h.Dst.String())
		})
	}

	check("tcp4",
		"PROXY TCP4 192.168.0.1 192.168.0.11 56324 443\r\n",
		FamilyIPv4, "192.168.0.1:56324", "192.168.0.11:443")
	check("tcp4-max",
		"PROXY TCP4 255.255.255.255 255.255.255.255 65535 65535\r\n",
		FamilyIPv4, "255.255.255.255:65535", "255.255.255.255:65535")
	check("tcp6",
		"PROXY TCP6 2001:db8:85a3::8a2e:370:7334 2002:db8:85a3::8a2e:370:7334 1234 5678\r\n",
		FamilyIPv6, "[2001:db8:85a3::8a2e:370:7334]:1234", "[2002:db8:85a3::8a2e:370:7334]:5678")
	check("tcp6-full-form",
		"PROXY TCP6 ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff 65535 65535\r\n",
		FamilyIPv6, "[ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff]:65535", "[ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff]:65535")
	check("port-zero",
		"PROXY TCP4 10.0.0.1 10.0.0.2 0 0\r\n",
		FamilyIPv4, "10.0.0.1:0", "10.0.0.2:0")
	check("unknown",
		"PROXY UNKNOWN\r\n",
		FamilyUnknown, "", "")
	check("unknown-with-trailing-tokens",
		"PROXY UNKNOWN ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff ffff::1 65535 65535\r\n",
		FamilyUnknown, "", "")
	check("unknown-with-garbage",
		"PROXY UNKNOWN not even remotely \xff valid\r\n",
		FamilyUnknown, "", "")
}

func TestDecodeV1_UnknownConsumed(t *testing.T) {
	// "PROXY UNKNOWN\r\n" is 15 bytes; nothing of the payload is touched.
	h, n, err := Decode([]byte("PROXY UNKNOWN\r\npayload"))
	require.NoError(t, err)
	assert.Equal(t, 15, n)
	assert.Equal(t, FamilyUnknown, h.Family)
}

func TestDecodeV1_Malformed(t *testing.T) {
	check := func(name, line, reason string) {
		t.Run(name, func(t *testing.T) {
			_, _, err := Decode([]byte(line))
			var mErr *MalformedError
			require.ErrorAs(t, err, &mErr)
			assert.Equal(t, reason, mErr.Reason)
		})
	}

	check("bad-proto", "PROXY TCP 1.2.3.4 5.6.7.8 1 2\r\n", ReasonBadLine)
	check("missing-field", "PROXY TCP4 1.2.3.4 5.6.7.8 443\r\n", ReasonBadLine)
	check("extra-field", "PROXY TCP4 1.2.3.4 5.6.7.8 1 2 3\r\n", ReasonBadLine)
	check("double-space", "PROXY TCP4 1.2.3.4  5.6.7.8 1 2\r\n", ReasonBadLine)
	check("bad-src-ip", "PROXY TCP4 999.0.0.1 5.6.7.8 1 2\r\n", ReasonBadAddress)
	check("bad-dst-ip", "PROXY TCP4 1.2.3.4 nope 1 2\r\n", ReasonBadAddress)
	check("v6-in-tcp4", "PROXY TCP4 ::1 5.6.7.8 1 2\r\n", ReasonBadAddress)
	check("mapped-v4-in-tcp4", "PROXY TCP4 ::ffff:1.2.3.4 5.6.7.8 1 2\r\n", ReasonBadAddress)
	check("v4-in-tcp6", "PROXY TCP6 1.2.3.4 ::1 1 2\r\n", ReasonBadAddress)
	check("leading-zero-port", "PROXY TCP4 1.2.3.4 5.6.7.8 0443 80\r\n", ReasonBadPort)
	check("port-too-big", "PROXY TCP4 1.2.3.4 5.6.7.8 65536 80\r\n", ReasonBadPort)
	check("negative-port", "PROXY TCP4 1.2.3.4 5.6.7.8 -1 80\r\n", ReasonBadPort)
	check("signed-port", "PROXY TCP4 1.2.3.4 5.6.7.8 +443 80\r\n", ReasonBadPort)
	check("hex-port", "PROXY TCP4 1.2.3.4 5.6.7.8 0x1f 80\r\n", ReasonBadPort)
	check("empty-port", "PROXY TCP4 1.2.3.4 5.6.7.8  80\r\n", ReasonBadPort)
	check("line-too-long",
		"PROXY TCP4 1.2.3.4 5.6.7.8 1 "+strings.Repeat("2", 100),
		ReasonLineLength)
}
