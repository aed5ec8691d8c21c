package ip2loc

import "fmt"

// Field identifies one attribute a database row may carry.
type Field uint8

// Fields in the order they appear in a Record.
const (
	Country Field = iota
	Region
	City
	ISP
	Domain
	ZipCode
	Latitude
	Longitude
	TimeZone
	NetSpeed
	IDDCode
	AreaCode
	WeatherStationCode
	WeatherStationName
	MCC
	MNC
	MobileBrand
	Elevation
	UsageType
	AddressType
	Category
	District
	ASN
	AS

	fieldCount
)

var fieldNames = [fieldCount]string{
	"country", "region", "city", "isp", "domain", "zipcode",
	"latitude", "longitude", "timezone", "netspeed", "iddcode", "areacode",
	"weatherstationcode", "weatherstationname", "mcc", "mnc", "mobilebrand",
	"elevation", "usagetype", "addresstype", "category", "district", "asn", "as",
}

func (f Field) String() string {
	if f < fieldCount {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// maxDBType is the highest database type code with a known layout.
const maxDBType = 26

// positions holds, per field, the 1-based column of that field for every
// database type code (index 0 is unused). Column 1 is always the range start;
// 0 means the type does not carry the field.
var positions = [fieldCount][maxDBType + 1]uint8{
	Country:            {0, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
	Region:             {0, 0, 0, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
	City:               {0, 0, 0, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
	ISP:                {0, 0, 3, 0, 5, 0, 7, 5, 7, 0, 8, 0, 9, 0, 9, 0, 9, 0, 9, 7, 9, 0, 9, 7, 9, 9, 9},
	Domain:             {0, 0, 0, 0, 0, 0, 0, 6, 8, 0, 9, 0, 10, 0, 10, 0, 10, 0, 10, 8, 10, 0, 10, 8, 10, 10, 10},
	ZipCode:            {0, 0, 0, 0, 0, 0, 0, 0, 0, 7, 7, 7, 7, 0, 7, 7, 7, 0, 7, 0, 7, 7, 7, 0, 7, 7, 7},
	Latitude:           {0, 0, 0, 0, 0, 5, 5, 0, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5},
	Longitude:          {0, 0, 0, 0, 0, 6, 6, 0, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6},
	TimeZone:           {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 8, 7, 8, 8, 8, 7, 8, 0, 8, 8, 8, 0, 8, 8, 8},
	NetSpeed:           {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 11, 0, 11, 8, 11, 0, 11, 0, 11, 0, 11, 11, 11},
	IDDCode:            {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 9, 12, 0, 12, 0, 12, 9, 12, 0, 12, 12, 12},
	AreaCode:           {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 10, 13, 0, 13, 0, 13, 10, 13, 0, 13, 13, 13},
	WeatherStationCode: {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 9, 14, 0, 14, 0, 14, 0, 14, 14, 14},
	WeatherStationName: {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 10, 15, 0, 15, 0, 15, 0, 15, 15, 15},
	MCC:                {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 9, 16, 0, 16, 9, 16, 16, 16},
	MNC:                {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 10, 17, 0, 17, 10, 17, 17, 17},
	MobileBrand:        {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 11, 18, 0, 18, 11, 18, 18, 18},
	Elevation:          {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 11, 19, 0, 19, 19, 19},
	UsageType:          {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 12, 20, 20, 20},
	AddressType:        {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 21, 21},
	Category:           {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 22, 22},
	District:           {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 23},
	ASN:                {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 24},
	AS:                 {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 25},
}

// column locates a field inside the part of a row that follows the range
// start.
type column struct {
	enabled bool
	offset  uint32
}

// columnLayout is the per-field column table of one database type.
type columnLayout [fieldCount]column

func newColumnLayout(dbType uint8) (columnLayout, error) {
	var layout columnLayout
	if dbType > maxDBType {
		return layout, fmt.Errorf("%w: unknown database type %d", ErrUnsupportedFormat, dbType)
	}
	for f := Field(0); f < fieldCount; f++ {
		pos := positions[f][dbType]
		if pos == 0 {
			continue
		}
		layout[f] = column{enabled: true, offset: uint32(pos-2) << 2}
	}
	return layout, nil
}

func (l *columnLayout) has(f Field) bool {
	return f < fieldCount && l[f].enabled
}

// columnsFor returns the smallest column count able to hold every field of
// dbType, the range start included.
func columnsFor(dbType uint8) uint8 {
	cols := uint8(1)
	if dbType > maxDBType {
		return cols
	}
	for f := Field(0); f < fieldCount; f++ {
		if p := positions[f][dbType]; p > cols {
			cols = p
		}
	}
	return cols
}
