package ip2loc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLayout(t *testing.T) {
	l, err := newColumnLayout(1)
	require.NoError(t, err)
	assert.True(t, l.has(Country))
	assert.Equal(t, uint32(0), l[Country].offset)
	for f := Region; f < fieldCount; f++ {
		assert.False(t, l.has(f), f.String())
	}

	l, err = newColumnLayout(26)
	require.NoError(t, err)
	for f := Field(0); f < fieldCount; f++ {
		assert.True(t, l.has(f), f.String())
	}
	assert.Equal(t, uint32(4), l[Region].offset)
	assert.Equal(t, uint32(12), l[Latitude].offset)
	assert.Equal(t, uint32(92), l[AS].offset)

	l, err = newColumnLayout(5)
	require.NoError(t, err)
	assert.False(t, l.has(ISP))
	assert.Equal(t, uint32(16), l[Longitude].offset)

	_, err = newColumnLayout(maxDBType + 1)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestColumnsFor(t *testing.T) {
	assert.Equal(t, uint8(1), columnsFor(0))
	assert.Equal(t, uint8(2), columnsFor(1))
	assert.Equal(t, uint8(3), columnsFor(2))
	assert.Equal(t, uint8(6), columnsFor(5))
	assert.Equal(t, uint8(25), columnsFor(26))
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "country", Country.String())
	assert.Equal(t, "as", AS.String())
	assert.Equal(t, "field(99)", Field(99).String())
}

func TestLayoutFitsEveryType(t *testing.T) {
	for typ := uint8(0); typ <= maxDBType; typ++ {
		l, err := newColumnLayout(typ)
		require.NoError(t, err)
		rowLen := (uint32(columnsFor(typ)) - 1) * 4
		for f := Field(0); f < fieldCount; f++ {
			if l.has(f) {
				assert.LessOrEqual(t, l[f].offset+4, rowLen, "type %d %s", typ, f)
			}
		}
	}
}
