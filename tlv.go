package proxyhead

import "encoding/binary"

// TLVType tags a v2 extension record.
type TLVType byte

// Registered PP2 type tags. Unregistered tags are preserved as-is.
const (
	TLVTypeALPN      TLVType = 0x01
	TLVTypeAuthority TLVType = 0x02
	TLVTypeCRC32C    TLVType = 0x03
	TLVTypeNOOP      TLVType = 0x04
	TLVTypeUniqueID  TLVType = 0x05
	TLVTypeSSL       TLVType = 0x20
	TLVTypeNetNS     TLVType = 0x30

	TLVSubTypeSSLVersion TLVType = 0x21
	TLVSubTypeSSLCN      TLVType = 0x22
	TLVSubTypeSSLCipher  TLVType = 0x23
	TLVSubTypeSSLSigAlg  TLVType = 0x24
	TLVSubTypeSSLKeyAlg  TLVType = 0x25
)

// TLV is a single v2 extension record.
type TLV struct {
	Type  TLVType
	Value []byte
}

// parseTLVs decodes the records trailing the address block. A record whose
// declared length runs past the header boundary is malformed.
func parseTLVs(b []byte) ([]TLV, error) {
	var res []TLV
	for len(b) > 0 {
		if len(b) < 3 {
			return nil, malformed(ReasonBadTLV)
		}
		valLen := int(binary.BigEndian.Uint16(b[1:3]))
		if len(b) < 3+valLen {
			return nil, malformed(ReasonBadTLV)
		}
		value := make([]byte, valLen)
		copy(value, b[3:])
		res = append(res, TLV{Type: TLVType(b[0]), Value: value})
		b = b[3+valLen:]
	}
	return res, nil
}

// TLV returns the value of the first extension record with type t.
func (h *Header) TLV(t TLVType) (value []byte, ok bool) {
	for _, tlv := range h.TLVs {
		if tlv.Type == t {
			return tlv.Value, true
		}
	}
	return nil, false
}
