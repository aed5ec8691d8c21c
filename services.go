package ip2loc

import (
	"encoding/binary"
	"net/netip"

	"lukechampine.com/uint128"
)

type ipVersion uint8

const (
	ipV4 ipVersion = 4
	ipV6 ipVersion = 6
)

var (
	maxIPv4 = uint128.From64(0xFFFFFFFF)
	maxIPv6 = uint128.Max

	from6to4   = uint128.New(0, 0x2002000000000000)
	to6to4     = uint128.New(0xFFFFFFFFFFFFFFFF, 0x2002FFFFFFFFFFFF)
	fromTeredo = uint128.New(0, 0x2001000000000000)
	toTeredo   = uint128.New(0xFFFFFFFFFFFFFFFF, 0x20010000FFFFFFFF)
)

// maxValue - largest key of the version's address space
func maxValue(v ipVersion) uint128.Uint128 {
	if v == ipV4 {
		return maxIPv4
	}
	return maxIPv6
}

// ipV4ToInt - ip v4 to int
func ipV4ToInt(ip netip.Addr) uint128.Uint128 {
	b := ip.As4()
	return uint128.From64(uint64(binary.BigEndian.Uint32(b[:])))
}

// ipV6ToInt - ip v6 to int
func ipV6ToInt(ip netip.Addr) uint128.Uint128 {
	b := ip.As16()
	return uint128.FromBytesBE(b[:])
}

func inRange(v, from, to uint128.Uint128) bool {
	return v.Cmp(from) >= 0 && v.Cmp(to) <= 0
}

// bucketOf returns the coarse index slot of a key: bits 31..16 for IPv4 and
// bits 127..112 for IPv6.
func bucketOf(v ipVersion, key uint128.Uint128) uint32 {
	if v == ipV4 {
		return uint32(key.Rsh(16).Lo & 0xFFFF)
	}
	return uint32(key.Rsh(112).Lo & 0xFFFF)
}

// keyWidth is the byte size of a row's range start.
func keyWidth(v ipVersion) int {
	if v == ipV4 {
		return 4
	}
	return 16
}
