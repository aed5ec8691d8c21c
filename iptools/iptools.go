// Package iptools converts textual IP addresses to numbers, ranges and CIDR
// blocks. It shares nothing with the database reader.
package iptools

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"go4.org/netipx"
	"lukechampine.com/uint128"
)

var (
	ErrInvalidAddress = errors.New("iptools: invalid ip address")
	ErrInvalidCIDR    = errors.New("iptools: invalid cidr")
	ErrOutOfRange     = errors.New("iptools: number out of range")
)

const maxIPv4 = 1<<32 - 1

func parse(s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || a.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return a, nil
}

func parse4(s string) (netip.Addr, error) {
	a, err := parse(s)
	if err != nil {
		return a, err
	}
	if a = a.Unmap(); !a.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not ipv4", ErrInvalidAddress, s)
	}
	return a, nil
}

func parse6(s string) (netip.Addr, error) {
	a, err := parse(s)
	if err != nil {
		return a, err
	}
	if !a.Is6() || a.Is4In6() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not ipv6", ErrInvalidAddress, s)
	}
	return a, nil
}

// IsIPv4 reports whether s is an IPv4 address. IPv4-mapped IPv6 text counts
// as IPv4.
func IsIPv4(s string) bool {
	_, err := parse4(s)
	return err == nil
}

// IsIPv6 reports whether s is an IPv6 address that is not IPv4-mapped.
func IsIPv6(s string) bool {
	_, err := parse6(s)
	return err == nil
}

// IPv4ToDecimal returns the address as a 32-bit number.
func IPv4ToDecimal(s string) (uint32, error) {
	a, err := parse4(s)
	if err != nil {
		return 0, err
	}
	b := a.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// IPv6ToDecimal returns the address as a 128-bit number.
func IPv6ToDecimal(s string) (uint128.Uint128, error) {
	a, err := parse6(s)
	if err != nil {
		return uint128.Zero, err
	}
	b := a.As16()
	return uint128.FromBytesBE(b[:]), nil
}

// DecimalToIPv4 renders a number as dotted IPv4.
func DecimalToIPv4(n uint64) (string, error) {
	if n > maxIPv4 {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}).String(), nil
}

// DecimalToIPv6 renders a number as eight unpadded hex groups, or as dotted
// IPv4 when it falls in the IPv4-mapped range.
func DecimalToIPv6(n uint128.Uint128) string {
	var b [16]byte
	n.PutBytesBE(b[:])
	a := netip.AddrFrom16(b)
	if a.Is4In6() {
		return a.Unmap().String()
	}
	groups := make([]string, 8)
	for i := range groups {
		groups[i] = fmt.Sprintf("%x", uint16(b[2*i])<<8|uint16(b[2*i+1]))
	}
	return strings.Join(groups, ":")
}

// CompressIPv6 returns the shortest form of an IPv6 address.
func CompressIPv6(s string) (string, error) {
	a, err := parse6(s)
	if err != nil {
		return "", err
	}
	return a.String(), nil
}

// ExpandIPv6 returns an IPv6 address as eight 4-digit lowercase groups.
func ExpandIPv6(s string) (string, error) {
	a, err := parse6(s)
	if err != nil {
		return "", err
	}
	return a.StringExpanded(), nil
}

// IPv4ToCIDR returns the fewest CIDR blocks covering from..to. A reversed
// range yields no blocks.
func IPv4ToCIDR(from, to string) ([]string, error) {
	a, err := parse4(from)
	if err != nil {
		return nil, err
	}
	b, err := parse4(to)
	if err != nil {
		return nil, err
	}
	return prefixes(netipx.IPRangeFrom(a, b)), nil
}

// IPv6ToCIDR returns the fewest CIDR blocks covering the range between two
// IPv6 addresses, given in either order.
func IPv6ToCIDR(from, to string) ([]string, error) {
	a, err := parse6(from)
	if err != nil {
		return nil, err
	}
	b, err := parse6(to)
	if err != nil {
		return nil, err
	}
	if b.Less(a) {
		a, b = b, a
	}
	return prefixes(netipx.IPRangeFrom(a, b)), nil
}

func prefixes(r netipx.IPRange) []string {
	out := []string{}
	for _, p := range r.Prefixes() {
		out = append(out, p.String())
	}
	return out
}

// CIDRToIPv4 returns the first and last address of an IPv4 block.
func CIDRToIPv4(cidr string) (first, last string, err error) {
	r, err := parseCIDR(cidr)
	if err != nil {
		return "", "", err
	}
	if !r.From().Is4() {
		return "", "", fmt.Errorf("%w: %q is not ipv4", ErrInvalidCIDR, cidr)
	}
	return r.From().String(), r.To().String(), nil
}

// CIDRToIPv6 returns the first and last address of an IPv6 block, expanded.
func CIDRToIPv6(cidr string) (first, last string, err error) {
	r, err := parseCIDR(cidr)
	if err != nil {
		return "", "", err
	}
	if !r.From().Is6() {
		return "", "", fmt.Errorf("%w: %q is not ipv6", ErrInvalidCIDR, cidr)
	}
	return r.From().StringExpanded(), r.To().StringExpanded(), nil
}

func parseCIDR(cidr string) (netipx.IPRange, error) {
	p, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	if err != nil {
		return netipx.IPRange{}, fmt.Errorf("%w: %q", ErrInvalidCIDR, cidr)
	}
	return netipx.RangeOfPrefix(p.Masked()), nil
}
