package ip2loc

import (
	"fmt"
	"io"

	"lukechampine.com/uint128"
)

// handle is one open view of the database bytes.
type handle interface {
	io.ReaderAt
	io.Closer
	Size() int64
}

// source opens the bytes of one database. Both methods must expose the same
// content: open returns a handle owned by a single query, mmap one that is
// shared by all of them.
type source interface {
	open() (handle, error)
	mmap() (handle, error)
	String() string
}

type fileSource struct {
	path string
}

func (s fileSource) open() (handle, error) { return newDBStream(s.path) }
func (s fileSource) mmap() (handle, error) { return mapFile(s.path) }
func (s fileSource) String() string        { return s.path }

type bytesSource struct {
	data []byte
}

func (s bytesSource) open() (handle, error) { return newMemoryImage(s.data), nil }
func (s bytesSource) mmap() (handle, error) { return newMemoryImage(s.data), nil }
func (s bytesSource) String() string        { return fmt.Sprintf("memory (%d bytes)", len(s.data)) }

// section is a byte range of the file, offset 0-based.
type section struct {
	off  int64
	size int64
}

func (s section) end() int64 { return s.off + s.size }

// sections splits the file into the two row tables and the data section
// that holds every string.
type sections struct {
	v4, v6 section
	data   section
}

func newSections(m *Meta, fileSize int64) (sections, error) {
	var s sections
	var err error
	if s.v4, err = rowTable("ipv4", m.BaseV4, m.CountV4, m.columnSizeV4, fileSize); err != nil {
		return s, err
	}
	end := s.v4.end()
	if m.HasIPv6() {
		if s.v6, err = rowTable("ipv6", m.BaseV6, m.CountV6, m.columnSizeV6, fileSize); err != nil {
			return s, err
		}
		end = max(end, s.v6.end())
	}
	s.data = section{off: end, size: fileSize - end}
	return s, nil
}

func rowTable(name string, base, count, columnSize uint32, fileSize int64) (section, error) {
	if count == 0 {
		return section{off: max(int64(base)-1, 0)}, nil
	}
	if base == 0 {
		return section{}, fmt.Errorf("%w: %s table has no base address", ErrInvalidDatabase, name)
	}
	sec := section{off: int64(base) - 1, size: int64(count) * int64(columnSize)}
	if sec.end() > fileSize {
		return section{}, fmt.Errorf("%w: %s table ends at %d past end of file (%d)",
			ErrInvalidDatabase, name, sec.end(), fileSize)
	}
	return sec, nil
}

// view reads one query's rows and strings. Each view has its own section
// readers, none of them keeps a shared position.
type view struct {
	v4, v6   *io.SectionReader
	data     *io.SectionReader
	dataBase int64
	logf     func(format string, args ...interface{})
}

func newView(r io.ReaderAt, s sections, logf func(string, ...interface{})) *view {
	return &view{
		v4:       io.NewSectionReader(r, s.v4.off, s.v4.size),
		v6:       io.NewSectionReader(r, s.v6.off, s.v6.size),
		data:     io.NewSectionReader(r, s.data.off, s.data.size),
		dataBase: s.data.off,
		logf:     logf,
	}
}

func (v *view) rows(ver ipVersion) *io.SectionReader {
	if ver == ipV4 {
		return v.v4
	}
	return v.v6
}

// readString decodes the string record at a file position. A position
// outside the data section or a record cut short by the end of the file is
// logged and decodes as "".
func (v *view) readString(pos uint32) string {
	off := int64(pos) - v.dataBase
	if off < 0 || off >= v.data.Size() {
		v.logf("string at %d lies outside the data section", pos)
		return ""
	}
	buf := make([]byte, maxStringRead)
	n, err := v.data.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		v.logf("read string at %d: %v", pos, err)
		return ""
	}
	s, ok := decodeString(buf[:n])
	if !ok {
		v.logf("string at %d runs past the end of the file", pos)
	}
	return s
}

// readRow reads the row at index i and, unless i is the last row, the range
// start of the row after it. next is false when the row has no successor.
func readRow(rows *io.SectionReader, i int64, ver ipVersion, columnSize uint32, buf []byte) (row []byte, to uint128.Uint128, next bool, err error) {
	off := i * int64(columnSize)
	next = off+int64(columnSize) < rows.Size()
	n := int(columnSize)
	if next {
		n += keyWidth(ver)
	}
	if _, err = rows.ReadAt(buf[:n], off); err != nil {
		return nil, to, false, err
	}
	if next {
		to = readKey(buf[columnSize:n])
	}
	return buf[:columnSize], to, next, nil
}

// readAt reads exactly n bytes at off.
func readAt(r io.ReaderAt, off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := r.ReadAt(buf, off)
	if got == n {
		return buf, nil
	}
	if err == nil || err == io.EOF {
		err = fmt.Errorf("tried to read %d bytes at %d but got %d", n, off, got)
	}
	return nil, err
}
