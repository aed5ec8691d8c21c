package ip2loc

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"lukechampine.com/uint128"
)

// maxStringRead is the most a string record can take: one length byte and
// up to 255 bytes of text.
const maxStringRead = 256

// readKey decodes a little-endian range start of 4 or 16 bytes.
func readKey(b []byte) uint128.Uint128 {
	if len(b) == 4 {
		return uint128.From64(uint64(binary.LittleEndian.Uint32(b)))
	}
	return uint128.FromBytes(b[:16])
}

func readUint32(row []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(row[off : off+4])
}

func readFloat32(row []byte, off uint32) float32 {
	b := row[off : off+4]
	bits := uint32(b[3]&0xff)<<24 | uint32(b[2]&0xff)<<16 | uint32(b[1]&0xff)<<8 | uint32(b[0]&0xff)
	return math.Float32frombits(bits)
}

// decodeString reads a length-prefixed string from the front of b. ok is
// false when b holds less than the declared length.
func decodeString(b []byte) (s string, ok bool) {
	if len(b) == 0 {
		return "", false
	}
	n := int(b[0])
	if 1+n > len(b) {
		return "", false
	}
	return string(b[1 : 1+n]), true
}

// formatCoordinate renders f with at most six fractional digits, dropping
// trailing zeros and a bare decimal point.
func formatCoordinate(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// roundCoordinate truncates a stored coordinate to the precision it is
// published with.
func roundCoordinate(f float32) float32 {
	v, err := strconv.ParseFloat(formatCoordinate(f), 32)
	if err != nil {
		return f
	}
	return float32(v)
}

// parseElevation reads the decimal text elevation is stored as, 0 when it
// does not parse. Type suffixes such as "12f" do not parse.
func parseElevation(s string) float32 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0
	}
	return float32(v)
}
