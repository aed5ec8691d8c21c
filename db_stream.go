package ip2loc

import (
	"io"
	"os"
)

// dbStream is a positioned reader over the database file. Every read seeks
// the one file handle, so a stream must not be shared between queries.
type dbStream struct {
	file *os.File
	size int64
}

func newDBStream(filename string) (*dbStream, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	stream := &dbStream{file: file}
	if stream.size, err = stream.getLength(); err != nil {
		file.Close()
		return nil, err
	}
	return stream, nil
}

func (stream *dbStream) readBuf(buf []byte) (int, error) {
	return io.ReadFull(stream.file, buf)
}

func (stream *dbStream) seekPos(pos int64, whence int) (int64, error) {
	return stream.file.Seek(pos, whence)
}

func (stream *dbStream) getLength() (int64, error) {
	return stream.seekPos(0, io.SeekEnd)
}

// ReadAt seeks to off and fills buf. A short read at the end of the file
// reports io.EOF.
func (stream *dbStream) ReadAt(buf []byte, off int64) (int, error) {
	if _, err := stream.seekPos(off, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := stream.readBuf(buf)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

func (stream *dbStream) Size() int64 {
	return stream.size
}

func (stream *dbStream) Close() error {
	return stream.file.Close()
}
