package ip2loc

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every backend must hand out the same bytes for the same read.
func TestBackendsReadTheSameBytes(t *testing.T) {
	d := fullDB()
	data := d.Build()
	path := d.WriteTemp(t)

	backends := map[string]source{
		"file":  fileSource{path: path},
		"bytes": bytesSource{data: data},
	}
	reads := []struct{ off, n int64 }{
		{0, headerSize},
		{64, 100},
		{664, 112},
		{int64(len(data)) - 300, 256},
		{int64(len(data)) - 10, 10},
	}

	for name, src := range backends {
		t.Run(name, func(t *testing.T) {
			stream, err := src.open()
			require.NoError(t, err)
			defer stream.Close()
			mapped, err := src.mmap()
			require.NoError(t, err)
			defer mapped.Close()

			assert.Equal(t, int64(len(data)), stream.Size())
			assert.Equal(t, int64(len(data)), mapped.Size())
			for _, r := range reads {
				want := data[r.off : r.off+r.n]
				for _, h := range []handle{stream, mapped} {
					got, err := readAt(h, r.off, int(r.n))
					require.NoError(t, err)
					assert.Equal(t, want, got, "read %d@%d", r.n, r.off)
				}
			}

			buf := make([]byte, 16)
			for _, h := range []handle{stream, mapped} {
				n, err := h.ReadAt(buf, int64(len(data))-4)
				assert.Equal(t, 4, n)
				assert.Equal(t, io.EOF, err)
			}
		})
	}
}

func TestNewSections(t *testing.T) {
	buf := fullDB().Build()
	meta, err := parseMeta(buf[:headerSize])
	require.NoError(t, err)

	s, err := newSections(meta, int64(len(buf)))
	require.NoError(t, err)
	assert.Equal(t, section{off: 64, size: 600}, s.v4)
	assert.Equal(t, section{off: 664, size: 672}, s.v6)
	assert.Equal(t, int64(664+672), s.data.off)
	assert.Equal(t, int64(len(buf)), s.data.end())

	_, err = newSections(meta, 1000)
	assert.True(t, errors.Is(err, ErrInvalidDatabase))
}

func TestViewReadString(t *testing.T) {
	d := countryDB()
	buf := d.Build()
	meta, err := parseMeta(buf[:headerSize])
	require.NoError(t, err)
	s, err := newSections(meta, int64(len(buf)))
	require.NoError(t, err)

	var logged []string
	v := newView(newMemoryImage(buf), s, func(format string, args ...interface{}) {
		logged = append(logged, format)
	})

	// first string record of the data section is the "-" country code
	assert.Equal(t, "-", v.readString(uint32(s.data.off)))
	assert.Equal(t, "-", v.readString(uint32(s.data.off)+3))
	assert.Empty(t, logged)

	assert.Equal(t, "", v.readString(10))
	assert.Equal(t, "", v.readString(uint32(len(buf))+5))
	assert.Len(t, logged, 2)

	// a length byte that runs past the end of the file
	buf[len(buf)-1] = 200
	assert.Equal(t, "", v.readString(uint32(len(buf)-1)))
	assert.Len(t, logged, 3)
}
