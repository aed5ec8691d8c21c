package ip2loc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// headerSize is the length of the fixed header at the start of a database.
const headerSize = 64

// productCode marks an IP2Location database in files released from 2021 on.
const productCode = 1

func readMeta(r io.ReaderAt) (*Meta, error) {
	buf, err := readAt(r, 0, headerSize)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidDatabase, err)
	}
	return parseMeta(buf)
}

func parseMeta(buf []byte) (*Meta, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("%w: header is %d bytes", ErrInvalidDatabase, len(buf))
	}
	meta := &Meta{}
	meta.DBType = buf[0]
	meta.Columns = buf[1]
	meta.Year = buf[2]
	meta.Month = buf[3]
	meta.Day = buf[4]
	meta.CountV4 = binary.LittleEndian.Uint32(buf[5:9])
	meta.BaseV4 = binary.LittleEndian.Uint32(buf[9:13])
	meta.CountV6 = binary.LittleEndian.Uint32(buf[13:17])
	meta.BaseV6 = binary.LittleEndian.Uint32(buf[17:21])
	meta.IndexV4 = binary.LittleEndian.Uint32(buf[21:25])
	meta.IndexV6 = binary.LittleEndian.Uint32(buf[25:29])
	meta.ProductCode = buf[29]
	meta.ProductType = buf[30]
	meta.FileSize = binary.LittleEndian.Uint32(buf[31:35])

	// 80/75 is what a zip archive ("PK") looks like through the header
	if (meta.ProductCode != productCode && meta.Year >= 21) || (meta.DBType == 80 && meta.Columns == 75) {
		return nil, fmt.Errorf("%w: not an IP2Location BIN file", ErrUnsupportedFormat)
	}
	if meta.DBType > maxDBType {
		return nil, fmt.Errorf("%w: unknown database type %d", ErrUnsupportedFormat, meta.DBType)
	}
	if meta.Columns == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidDatabase)
	}
	if need := columnsFor(meta.DBType); meta.Columns < need {
		return nil, fmt.Errorf("%w: type %d needs %d columns, header declares %d",
			ErrInvalidDatabase, meta.DBType, need, meta.Columns)
	}

	meta.columnSizeV4 = uint32(meta.Columns) << 2
	meta.columnSizeV6 = 16 + (uint32(meta.Columns)-1)<<2
	return meta, nil
}

func (m *Meta) columnSize(v ipVersion) uint32 {
	if v == ipV4 {
		return m.columnSizeV4
	}
	return m.columnSizeV6
}

func (m *Meta) count(v ipVersion) uint32 {
	if v == ipV4 {
		return m.CountV4
	}
	return m.CountV6
}
