package ip2loc

// state is everything parsed at load time. It never changes until the
// database is closed.
type state struct {
	meta     *Meta
	layout   columnLayout
	index    indexTable
	sections sections
}

// search finds the row whose range holds a.key and decodes it into rec.
func (s *state) search(v *view, a address, rec *Record) (Status, error) {
	rows := v.rows(a.version)
	count := int64(s.meta.count(a.version))
	columnSize := s.meta.columnSize(a.version)
	kw := keyWidth(a.version)

	low, high := int64(0), count-1
	if b, ok := s.index.window(a.version, a.key); ok {
		low, high = int64(b.low), min(int64(b.high), high)
	}

	buf := make([]byte, int(columnSize)+kw)
	for low <= high {
		mid := (low + high) / 2
		row, to, next, err := readRow(rows, mid, a.version, columnSize, buf)
		if err != nil {
			return StatusMissingFile, err
		}
		if !next {
			to = maxValue(a.version)
		}
		from := readKey(row[:kw])
		if a.key.Cmp(from) >= 0 && a.key.Cmp(to) < 0 {
			s.decodeRow(v, row[kw:], rec)
			return StatusOK, nil
		}
		if a.key.Cmp(from) < 0 {
			high = mid - 1
		} else {
			low = mid + 1
		}
	}
	return StatusNotFound, nil
}

// decodeRow fills rec from the columns that follow the range start.
func (s *state) decodeRow(v *view, row []byte, rec *Record) {
	for f := Field(0); f < fieldCount; f++ {
		col := s.layout[f]
		switch f {
		case Country:
			if !col.enabled {
				rec.CountryShort, rec.CountryLong = NotSupported, NotSupported
				continue
			}
			pos := readUint32(row, col.offset)
			rec.CountryShort = v.readString(pos)
			rec.CountryLong = v.readString(pos + 3)
		case Latitude:
			if col.enabled {
				rec.Latitude = roundCoordinate(readFloat32(row, col.offset))
			}
		case Longitude:
			if col.enabled {
				rec.Longitude = roundCoordinate(readFloat32(row, col.offset))
			}
		case Elevation:
			if col.enabled {
				rec.Elevation = parseElevation(v.readString(readUint32(row, col.offset)))
			}
		default:
			if !col.enabled {
				rec.setString(f, NotSupported)
				continue
			}
			rec.setString(f, v.readString(readUint32(row, col.offset)))
		}
	}
}
