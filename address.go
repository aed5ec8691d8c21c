package ip2loc

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"

	"lukechampine.com/uint128"
)

var (
	dottedQuad = regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

	// rejected before parsing: IPv6 with a zero-led (octal looking) IPv4
	// tail, and bare integers
	octalTail   = regexp.MustCompile(`(?i)^([0-9A-F]{1,4}:){6}(0[0-9]+\.|.*?\.0[0-9]+).*$`)
	numericOnly = regexp.MustCompile(`^[0-9]+$`)

	v4Tail       = regexp.MustCompile(`^(.*:)(([0-9]+\.){3}[0-9]+)$`)
	lastTwoHex   = regexp.MustCompile(`^.*((:[0-9A-F]{1,4}){2})$`)
	v4Compatible = regexp.MustCompile(`^[0:]+((:[0-9A-F]{1,4}){1,2})$`)
)

const (
	zeroHextet   = "0000"
	mappedPrefix = "0000:0000:0000:0000:0000:"
)

// address is a query key ready for the range search.
type address struct {
	version ipVersion
	key     uint128.Uint128
	display string
}

// normalizeAddress turns address text into a search key. The text must
// already be trimmed and non-empty.
func normalizeAddress(text string) (address, error) {
	if dottedQuad.MatchString(text) {
		a := address{version: ipV4, key: parseDottedQuad(text), display: text}
		return a.clamped(), nil
	}
	if octalTail.MatchString(text) || numericOnly.MatchString(text) {
		return address{}, ErrInvalidAddress
	}
	ip, err := netip.ParseAddr(text)
	if err != nil || ip.Zone() != "" {
		return address{}, ErrInvalidAddress
	}

	a := address{version: ipV6, key: ipV6ToInt(ip)}
	switch {
	case ip.Is4In6():
		a.version = ipV4
		a.key = ipV4ToInt(ip.Unmap())
	case inRange(a.key, from6to4, to6to4):
		a.key = a.key.Rsh(80).And64(0xFFFFFFFF)
		return address{version: ipV4, key: a.key, display: text}.clamped(), nil
	case inRange(a.key, fromTeredo, toTeredo):
		a.key = a.key.Xor(uint128.Max).And64(0xFFFFFFFF)
		return address{version: ipV4, key: a.key, display: text}.clamped(), nil
	}

	a.display, a.version = expandIPv6(strings.ToUpper(text), a.version)
	return a.clamped(), nil
}

// clamped moves the very last key of the address space one step down; the
// upper bound of the last row is exclusive.
func (a address) clamped() address {
	if a.key.Equals(maxValue(a.version)) {
		a.key = a.key.Sub64(1)
	}
	return a
}

func parseDottedQuad(s string) uint128.Uint128 {
	var v uint64
	for _, part := range strings.Split(s, ".") {
		n, _ := strconv.ParseUint(part, 10, 8)
		v = v<<8 | n
	}
	return uint128.From64(v)
}

// expandIPv6 rewrites upper-cased IPv6 text into its display form and
// reports the version the key is searched under. Mapped and compatible forms
// are rendered with a dotted IPv4 tail.
func expandIPv6(s string, v ipVersion) (string, ipVersion) {
	if v == ipV4 {
		if v4Tail.MatchString(s) {
			return strings.ReplaceAll(s, "::", mappedPrefix), ipV4
		}
		if m := lastTwoHex.FindStringSubmatch(s); m != nil {
			s = strings.TrimSuffix(s, m[1]) + ":" + hexToDotted(m[1])
			return strings.ReplaceAll(s, "::", mappedPrefix), ipV4
		}
		return s, ipV4
	}

	if s == "::" {
		return mappedPrefix + "FFFF:0.0.0.0", ipV4
	}
	if m := v4Tail.FindStringSubmatch(s); m != nil {
		v6part, v4part := m[1], m[2]
		var o [4]uint64
		for i, part := range strings.SplitN(v4part, ".", 4) {
			o[i], _ = strconv.ParseUint(part, 10, 16)
		}
		hi := strconv.FormatUint(o[0]<<8+o[1], 16)
		lo := strconv.FormatUint(o[2]<<8+o[3], 16)
		groups, written := hextets(strings.ToUpper(v6part + padHextet(hi) + ":" + padHextet(lo)))
		if written == 2 {
			return strings.Repeat(zeroHextet+":", 5) + "FFFF:" + v4part, ipV4
		}
		return strings.Join(groups, ":"), ipV6
	}
	if m := v4Compatible.FindStringSubmatch(s); m != nil {
		s = strings.TrimSuffix(s, m[1]) + ":" + hexToDotted(m[1])
		return strings.ReplaceAll(s, "::", mappedPrefix+"FFFF:"), ipV4
	}
	groups, _ := hextets(s)
	return strings.Join(groups, ":"), ipV6
}

// hextets expands IPv6 text into eight 4-digit groups and also reports how
// many of them were written out in s.
func hextets(s string) ([]string, int) {
	parts := strings.SplitN(s, "::", 2)
	var left, right []string
	for _, g := range strings.Split(parts[0], ":") {
		if g != "" {
			left = append(left, padHextet(g))
		}
	}
	if len(parts) > 1 {
		for _, g := range strings.Split(parts[1], ":") {
			if g != "" {
				right = append(right, padHextet(g))
			}
		}
	}
	written := len(left) + len(right)
	out := left
	for i := written; i < 8; i++ {
		out = append(out, zeroHextet)
	}
	return append(out, right...), written
}

func padHextet(g string) string {
	if len(g) >= len(zeroHextet) {
		return g
	}
	return zeroHextet[len(g):] + g
}

// hexToDotted renders one or two trailing hextets (":HHHH:HHHH") as dotted
// IPv4.
func hexToDotted(groups string) string {
	var digits strings.Builder
	for _, g := range strings.Split(strings.Trim(groups, ":"), ":") {
		digits.WriteString(padHextet(g))
	}
	n, _ := strconv.ParseUint(digits.String(), 16, 64)
	return netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}).String()
}
