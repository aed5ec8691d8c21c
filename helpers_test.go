package ip2loc

import (
	"net/netip"
	"testing"

	"github.com/proipinfo/ip2loc/internal/testdb"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

// row places cells at the columns dbType gives their fields.
func row(dbType uint8, from uint128.Uint128, cells map[Field]testdb.Cell) testdb.Row {
	r := testdb.Row{From: from, Cells: make([]testdb.Cell, columnsFor(dbType)-1)}
	for f, c := range cells {
		pos := positions[f][dbType]
		if pos == 0 {
			panic("field " + f.String() + " not in type")
		}
		r.Cells[pos-2] = c
	}
	return r
}

func v6(s string) uint128.Uint128 {
	return ipV6ToInt(netip.MustParseAddr(s))
}

// countryDB is a type 1 database: three IPv4 ranges with country only.
func countryDB() testdb.Database {
	return testdb.Database{
		Type: 1, Columns: 2, Year: 20, Month: 1, Day: 15,
		IPv4: []testdb.Row{
			row(1, testdb.V4(0, 0, 0, 0), map[Field]testdb.Cell{Country: testdb.Country("-", "-")}),
			row(1, testdb.V4(8, 8, 8, 0), map[Field]testdb.Cell{Country: testdb.Country("US", "United States of America")}),
			row(1, testdb.V4(8, 8, 9, 0), map[Field]testdb.Cell{Country: testdb.Country("DE", "Germany")}),
		},
	}
}

func fullCells(country, long, city string, lat, lon float32) map[Field]testdb.Cell {
	return map[Field]testdb.Cell{
		Country:            testdb.Country(country, long),
		Region:             testdb.Str("Region of " + city),
		City:               testdb.Str(city),
		ISP:                testdb.Str("Example ISP"),
		Domain:             testdb.Str("example.com"),
		ZipCode:            testdb.Str("94043"),
		Latitude:           testdb.Float(lat),
		Longitude:          testdb.Float(lon),
		TimeZone:           testdb.Str("-07:00"),
		NetSpeed:           testdb.Str("T1"),
		IDDCode:            testdb.Str("1"),
		AreaCode:           testdb.Str("650"),
		WeatherStationCode: testdb.Str("USCA0746"),
		WeatherStationName: testdb.Str("Mountain View"),
		MCC:                testdb.Str("310"),
		MNC:                testdb.Str("410"),
		MobileBrand:        testdb.Str("AT&T"),
		Elevation:          testdb.Str("32.5"),
		UsageType:          testdb.Str("DCH"),
		AddressType:        testdb.Str("U"),
		Category:           testdb.Str("IAB19-11"),
		District:           testdb.Str("Santa Clara"),
		ASN:                testdb.Str("15169"),
		AS:                 testdb.Str("Google LLC"),
	}
}

// fullDB is a type 26 database with IPv4 and IPv6 tables, both indexed.
func fullDB() testdb.Database {
	return testdb.Database{
		Type: 26, Columns: 25, Year: 23, Month: 11, Day: 1, ProductCode: 1, ProductType: 1,
		IPv4: []testdb.Row{
			row(26, testdb.V4(0, 0, 0, 0), fullCells("-", "-", "-", 0, 0)),
			row(26, testdb.V4(1, 2, 3, 0), fullCells("AU", "Australia", "Brisbane", -27.46794, 153.02809)),
			row(26, testdb.V4(8, 8, 8, 0), fullCells("US", "United States of America", "Mountain View", 1.23456789, -122.078514)),
			row(26, testdb.V4(8, 8, 9, 0), fullCells("DE", "Germany", "Berlin", 52.52437, 13.41053)),
			row(26, testdb.V4(200, 0, 0, 0), fullCells("BR", "Brazil", "Sao Paulo", -23.5475, -46.63611)),
			row(26, testdb.V4(255, 255, 255, 0), fullCells("ZZ", "Reserved", "Nowhere", 0, 0)),
		},
		IPv6: []testdb.Row{
			row(26, v6("::"), fullCells("-", "-", "-", 0, 0)),
			row(26, v6("2001:db8::"), fullCells("JP", "Japan", "Tokyo", 35.6895, 139.69171)),
			row(26, v6("2001:db9::"), fullCells("-", "-", "-", 0, 0)),
			row(26, v6("2a00:1450::"), fullCells("IE", "Ireland", "Dublin", 53.34399, -6.26719)),
			row(26, v6("2a00:1451::"), fullCells("-", "-", "-", 0, 0)),
			row(26, v6("ffff::"), fullCells("ZZ", "Reserved", "Nowhere", 0, 0)),
		},
		Indexed:   true,
		IndexedV6: true,
	}
}

func openBytes(t *testing.T, d testdb.Database) *DB {
	t.Helper()
	db, err := OpenBytes(d.Build())
	require.NoError(t, err)
	return db
}

func openFile(t *testing.T, d testdb.Database, mode Mode) *DB {
	t.Helper()
	db, err := OpenWithMode(d.WriteTemp(t), mode)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
