package ip2loc

import (
	"bytes"

	"golang.org/x/exp/mmap"
)

// mappedFile is a read-only mapping of the whole database file. ReadAt keeps
// no position, so one mapping serves any number of concurrent queries.
type mappedFile struct {
	*mmap.ReaderAt
}

func mapFile(filename string) (*mappedFile, error) {
	r, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	return &mappedFile{ReaderAt: r}, nil
}

func (m *mappedFile) Size() int64 {
	return int64(m.Len())
}

// memoryImage serves a database already held in memory. Both access modes
// read straight from the slice.
type memoryImage struct {
	*bytes.Reader
}

func newMemoryImage(data []byte) *memoryImage {
	return &memoryImage{Reader: bytes.NewReader(data)}
}

func (memoryImage) Close() error { return nil }
