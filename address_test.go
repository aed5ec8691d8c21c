package ip2loc

import (
	"errors"
	"math/rand"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in      string
		version ipVersion
		key     uint128.Uint128
		display string
	}{
		{"8.8.8.8", ipV4, uint128.From64(0x08080808), "8.8.8.8"},
		{"008.008.008.008", ipV4, uint128.From64(0x08080808), "008.008.008.008"},
		{"0.0.0.0", ipV4, uint128.Zero, "0.0.0.0"},
		{"255.255.255.255", ipV4, uint128.From64(0xFFFFFFFE), "255.255.255.255"},
		{"::ffff:8.8.8.8", ipV4, uint128.From64(0x08080808), "0000:0000:0000:0000:0000:FFFF:8.8.8.8"},
		{"::ffff:808:808", ipV4, uint128.From64(0x08080808), "0000:0000:0000:0000:0000:FFFF:8.8.8.8"},
		{"2002:0808:0808::1", ipV4, uint128.From64(0x08080808), "2002:0808:0808::1"},
		{"2001:0:4136:e378:8000:63bf:3fff:fdd2", ipV4, uint128.From64(0xC000022D), "2001:0:4136:e378:8000:63bf:3fff:fdd2"},
		{"::", ipV4, uint128.Zero, "0000:0000:0000:0000:0000:FFFF:0.0.0.0"},
		{"::1.2.3.4", ipV4, uint128.From64(0x01020304), "0000:0000:0000:0000:0000:FFFF:1.2.3.4"},
		{"::102:304", ipV4, uint128.From64(0x01020304), "0000:0000:0000:0000:0000:FFFF:1.2.3.4"},
		{"2001:db8::1", ipV6, v6("2001:db8::1"), "2001:0DB8:0000:0000:0000:0000:0000:0001"},
		{"2001:db8::1.2.3.4", ipV6, v6("2001:db8::102:304"), "2001:0DB8:0000:0000:0000:0000:0102:0304"},
		{"2a00:1450:4001:81b::200e", ipV6, v6("2a00:1450:4001:81b::200e"), "2A00:1450:4001:081B:0000:0000:0000:200E"},
		{"ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff", ipV6, uint128.Max.Sub64(1), "FFFF:FFFF:FFFF:FFFF:FFFF:FFFF:FFFF:FFFF"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := normalizeAddress(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.version, a.version)
			assert.Equal(t, tt.key, a.key)
			assert.Equal(t, tt.display, a.display)
		})
	}
}

func TestNormalizeAddressRejects(t *testing.T) {
	for _, in := range []string{
		"123456",
		"0",
		"1:2:3:4:5:6:01.2.3.4",
		"1:2:3:4:5:6:1.2.3.04",
		"256.1.1.1",
		"1.2.3",
		"example.com",
		"fe80::1%eth0",
		"2001:db8::g",
	} {
		_, err := normalizeAddress(in)
		assert.True(t, errors.Is(err, ErrInvalidAddress), in)
	}
}

func TestNormalizeDottedQuadRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		var b [4]byte
		rnd.Read(b[:])
		ip := netip.AddrFrom4(b)
		a, err := normalizeAddress(ip.String())
		require.NoError(t, err)
		require.Equal(t, ipV4, a.version)

		want := ipV4ToInt(ip)
		if want.Equals(maxIPv4) {
			want = want.Sub64(1)
		}
		require.Equal(t, want, a.key, ip.String())
		back := netip.AddrFrom4([4]byte{byte(a.key.Lo >> 24), byte(a.key.Lo >> 16), byte(a.key.Lo >> 8), byte(a.key.Lo)})
		if !a.key.Equals(uint128.From64(0xFFFFFFFE)) {
			require.Equal(t, ip.String(), back.String())
		}
	}
}

func TestNormalizeTunnels(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		var b [16]byte
		rnd.Read(b[:])

		b[0], b[1] = 0x20, 0x02
		sixToFour := netip.AddrFrom16(b)
		a, err := normalizeAddress(sixToFour.String())
		require.NoError(t, err)
		want := ipV6ToInt(sixToFour).Rsh(80).And64(0xFFFFFFFF)
		if want.Equals(maxIPv4) {
			want = want.Sub64(1)
		}
		assert.Equal(t, ipV4, a.version, sixToFour.String())
		assert.Equal(t, want, a.key, sixToFour.String())

		b[1], b[2], b[3] = 0x01, 0, 0
		teredo := netip.AddrFrom16(b)
		a, err = normalizeAddress(teredo.String())
		require.NoError(t, err)
		low := uint64(b[12])<<24 | uint64(b[13])<<16 | uint64(b[14])<<8 | uint64(b[15])
		want = uint128.From64(^low & 0xFFFFFFFF)
		if want.Equals(maxIPv4) {
			want = want.Sub64(1)
		}
		assert.Equal(t, ipV4, a.version, teredo.String())
		assert.Equal(t, want, a.key, teredo.String())
	}
}

func TestHextets(t *testing.T) {
	groups, written := hextets("2001:DB8::1")
	assert.Equal(t, []string{"2001", "0DB8", "0000", "0000", "0000", "0000", "0000", "0001"}, groups)
	assert.Equal(t, 3, written)

	groups, written = hextets("1:2:3:4:5:6:7:8")
	assert.Len(t, groups, 8)
	assert.Equal(t, 8, written)

	assert.Equal(t, "1.2.3.4", hexToDotted(":0102:0304"))
	assert.Equal(t, "0.0.0.1", hexToDotted(":1"))
}
