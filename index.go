package ip2loc

import (
	"encoding/binary"
	"fmt"
	"io"

	"lukechampine.com/uint128"
)

const (
	indexBuckets = 1 << 16
	bucketSize   = 8
)

// bucket bounds the rows whose range starts share the same top 16 bits.
type bucket struct {
	low, high uint32
}

type indexTable struct {
	v4, v6 []bucket
}

// loadIndex reads the coarse index in one request. The IPv6 buckets follow
// the IPv4 ones directly.
func loadIndex(r io.ReaderAt, m *Meta) (indexTable, error) {
	var t indexTable
	if !m.Indexed() {
		return t, nil
	}
	n := indexBuckets
	if m.IndexedV6() {
		n += indexBuckets
	}
	buf, err := readAt(r, int64(m.IndexV4)-1, n*bucketSize)
	if err != nil {
		return t, fmt.Errorf("%w: index: %v", ErrInvalidDatabase, err)
	}
	t.v4 = decodeBuckets(buf[:indexBuckets*bucketSize])
	if m.IndexedV6() {
		t.v6 = decodeBuckets(buf[indexBuckets*bucketSize:])
	}
	return t, nil
}

func decodeBuckets(buf []byte) []bucket {
	out := make([]bucket, len(buf)/bucketSize)
	for i := range out {
		p := buf[i*bucketSize:]
		out[i] = bucket{
			low:  binary.LittleEndian.Uint32(p[0:4]),
			high: binary.LittleEndian.Uint32(p[4:8]),
		}
	}
	return out
}

// window returns the row window for key, false when the family has no index.
func (t *indexTable) window(v ipVersion, key uint128.Uint128) (bucket, bool) {
	buckets := t.v4
	if v == ipV6 {
		buckets = t.v6
	}
	if len(buckets) == 0 {
		return bucket{}, false
	}
	return buckets[bucketOf(v, key)], true
}
