// Package testdb writes small BIN databases for tests.
package testdb

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"lukechampine.com/uint128"
)

const (
	headerSize   = 64
	indexBuckets = 1 << 16
	bucketSize   = 8
)

type cellKind uint8

const (
	kindRaw cellKind = iota
	kindString
	kindCountry
	kindFloat
)

// Cell is the content of one column after the range start.
type Cell struct {
	kind  cellKind
	short string
	long  string
	f     float32
	raw   uint32
}

// Str stores s in the data section and puts its position in the column.
func Str(s string) Cell { return Cell{kind: kindString, short: s} }

// Country stores a code of at most two letters and, three bytes after it,
// the country name.
func Country(short, long string) Cell { return Cell{kind: kindCountry, short: short, long: long} }

// Float puts the bits of f in the column.
func Float(f float32) Cell { return Cell{kind: kindFloat, f: f} }

// Raw puts v in the column as is, e.g. a bogus string position.
func Raw(v uint32) Cell { return Cell{kind: kindRaw, raw: v} }

// Row is one range start and the columns that follow it. Missing trailing
// cells are written as zero.
type Row struct {
	From  uint128.Uint128
	Cells []Cell
}

// V4 builds the range start of an IPv4 row from its dotted parts.
func V4(a, b, c, d byte) uint128.Uint128 {
	return uint128.From64(uint64(a)<<24 | uint64(b)<<16 | uint64(c)<<8 | uint64(d))
}

// Database describes a file to build. Rows must be sorted by From.
type Database struct {
	Type        uint8
	Columns     uint8
	Year        uint8
	Month       uint8
	Day         uint8
	ProductCode uint8
	ProductType uint8

	IPv4 []Row
	IPv6 []Row

	// Indexed adds the IPv4 index, IndexedV6 the IPv6 one after it.
	Indexed   bool
	IndexedV6 bool
}

// Build lays the file out as header, IPv4 rows, IPv6 rows, index, strings.
func (d Database) Build() []byte {
	col4 := int(d.Columns) * 4
	col6 := 16 + (int(d.Columns)-1)*4

	base4 := headerSize
	base6 := base4 + len(d.IPv4)*col4
	index := base6 + len(d.IPv6)*col6
	data := index
	if d.Indexed {
		data += indexBuckets * bucketSize
		if d.IndexedV6 {
			data += indexBuckets * bucketSize
		}
	}

	strs := &dataSection{base: uint32(data)}
	out := make([]byte, data)

	h := out[:headerSize]
	h[0], h[1], h[2], h[3], h[4] = d.Type, d.Columns, d.Year, d.Month, d.Day
	binary.LittleEndian.PutUint32(h[5:], uint32(len(d.IPv4)))
	binary.LittleEndian.PutUint32(h[9:], uint32(base4+1))
	binary.LittleEndian.PutUint32(h[13:], uint32(len(d.IPv6)))
	if len(d.IPv6) > 0 {
		binary.LittleEndian.PutUint32(h[17:], uint32(base6+1))
	}
	if d.Indexed {
		binary.LittleEndian.PutUint32(h[21:], uint32(index+1))
		if d.IndexedV6 {
			binary.LittleEndian.PutUint32(h[25:], uint32(index+1+indexBuckets*bucketSize))
		}
	}
	h[29], h[30] = d.ProductCode, d.ProductType

	d.putRows(out[base4:base6], d.IPv4, 4, col4, strs)
	d.putRows(out[base6:index], d.IPv6, 16, col6, strs)
	if d.Indexed {
		putIndex(out[index:], d.IPv4, 16)
		if d.IndexedV6 {
			putIndex(out[index+indexBuckets*bucketSize:], d.IPv6, 112)
		}
	}

	out = append(out, strs.buf...)
	binary.LittleEndian.PutUint32(out[31:], uint32(len(out)))
	return out
}

// WriteTemp writes the database into a test temp dir and returns its path.
func (d Database) WriteTemp(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.bin")
	if err := os.WriteFile(path, d.Build(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (d Database) putRows(dst []byte, rows []Row, keySize, columnSize int, strs *dataSection) {
	for i, r := range rows {
		row := dst[i*columnSize : (i+1)*columnSize]
		if keySize == 4 {
			binary.LittleEndian.PutUint32(row, uint32(r.From.Lo))
		} else {
			r.From.PutBytes(row[:16])
		}
		for j, c := range r.Cells {
			off := keySize + j*4
			if off+4 > len(row) {
				break
			}
			binary.LittleEndian.PutUint32(row[off:], strs.cell(c))
		}
	}
}

// putIndex fills the bucket table: for every bucket the first and last row
// whose range can hold an address with that prefix.
func putIndex(dst []byte, rows []Row, shift uint) {
	last := func(key uint128.Uint128) uint32 {
		i := sort.Search(len(rows), func(i int) bool { return rows[i].From.Cmp(key) > 0 })
		if i == 0 {
			return 0
		}
		return uint32(i - 1)
	}
	for b := 0; b < indexBuckets; b++ {
		start := uint128.From64(uint64(b)).Lsh(shift)
		end := uint128.From64(uint64(b + 1)).Lsh(shift).SubWrap64(1)
		binary.LittleEndian.PutUint32(dst[b*bucketSize:], last(start))
		binary.LittleEndian.PutUint32(dst[b*bucketSize+4:], last(end))
	}
}

// dataSection accumulates the length-prefixed strings.
type dataSection struct {
	base uint32
	buf  []byte
}

func (s *dataSection) put(v string) uint32 {
	pos := s.base + uint32(len(s.buf))
	s.buf = append(s.buf, byte(len(v)))
	s.buf = append(s.buf, v...)
	return pos
}

func (s *dataSection) cell(c Cell) uint32 {
	switch c.kind {
	case kindString:
		return s.put(c.short)
	case kindCountry:
		pos := s.put(c.short)
		for s.base+uint32(len(s.buf)) < pos+3 {
			s.buf = append(s.buf, 0)
		}
		s.put(c.long)
		return pos
	case kindFloat:
		return math.Float32bits(c.f)
	}
	return c.raw
}
