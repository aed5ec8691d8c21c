package ip2loc

import (
	"errors"
	"fmt"
	"strings"
)

// NotSupported is the value of every string field the database type does not
// carry.
const NotSupported = "Not_Supported"

var (
	ErrInvalidDatabase   = errors.New("ip2loc: invalid database")
	ErrUnsupportedFormat = errors.New("ip2loc: unsupported database format")
	ErrEmptyAddress      = errors.New("ip2loc: empty ip address")
	ErrInvalidAddress    = errors.New("ip2loc: invalid ip address")
	ErrMissingFile       = errors.New("ip2loc: missing database file")
	ErrIPv6NotSupported  = errors.New("ip2loc: ipv6 not supported by database")
	ErrNotFound          = errors.New("ip2loc: address not found")
)

// Status is the outcome of a query.
type Status string

const (
	StatusOK               Status = "OK"
	StatusEmptyAddress     Status = "EMPTY_IP_ADDRESS"
	StatusInvalidAddress   Status = "INVALID_IP_ADDRESS"
	StatusMissingFile      Status = "MISSING_FILE"
	StatusIPv6NotSupported Status = "IPV6_NOT_SUPPORTED"
	StatusNotFound         Status = "NOT_FOUND"
)

// Err maps a status to its sentinel error, nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusEmptyAddress:
		return ErrEmptyAddress
	case StatusInvalidAddress:
		return ErrInvalidAddress
	case StatusMissingFile:
		return ErrMissingFile
	case StatusIPv6NotSupported:
		return ErrIPv6NotSupported
	case StatusNotFound:
		return ErrNotFound
	}
	return fmt.Errorf("ip2loc: unknown status %q", string(s))
}

// Meta - parsed database header
type Meta struct {
	DBType      uint8  // selects the column layout
	Columns     uint8  // columns per row, range start included
	Year        uint8  // two-digit release year
	Month       uint8  // release month
	Day         uint8  // release day
	CountV4     uint32 // rows in the IPv4 table
	BaseV4      uint32 // 1-based file position of the IPv4 table
	CountV6     uint32 // rows in the IPv6 table
	BaseV6      uint32 // 1-based file position of the IPv6 table
	IndexV4     uint32 // 1-based file position of the IPv4 index, 0 if absent
	IndexV6     uint32 // 1-based file position of the IPv6 index, 0 if absent
	ProductCode uint8
	ProductType uint8
	FileSize    uint32 // declared, never checked

	// private members
	columnSizeV4 uint32
	columnSizeV6 uint32
}

// Indexed reports whether the IPv4 table has a coarse index.
func (m *Meta) Indexed() bool {
	return m.IndexV4 > 0
}

// HasIPv6 reports whether the database carries an IPv6 table.
func (m *Meta) HasIPv6() bool {
	return m.CountV6 > 0
}

// IndexedV6 reports whether the IPv6 table has a coarse index.
func (m *Meta) IndexedV6() bool {
	return m.HasIPv6() && m.IndexV6 > 0
}

// Record - result of a single query
type Record struct {
	Address            string  `json:"ip" msgpack:"ip"`
	CountryShort       string  `json:"country_short" msgpack:"country_short"`
	CountryLong        string  `json:"country_long" msgpack:"country_long"`
	Region             string  `json:"region" msgpack:"region"`
	City               string  `json:"city" msgpack:"city"`
	ISP                string  `json:"isp" msgpack:"isp"`
	Latitude           float32 `json:"latitude" msgpack:"latitude"`
	Longitude          float32 `json:"longitude" msgpack:"longitude"`
	Domain             string  `json:"domain" msgpack:"domain"`
	ZipCode            string  `json:"zipcode" msgpack:"zipcode"`
	TimeZone           string  `json:"timezone" msgpack:"timezone"`
	NetSpeed           string  `json:"netspeed" msgpack:"netspeed"`
	IDDCode            string  `json:"iddcode" msgpack:"iddcode"`
	AreaCode           string  `json:"areacode" msgpack:"areacode"`
	WeatherStationCode string  `json:"weatherstationcode" msgpack:"weatherstationcode"`
	WeatherStationName string  `json:"weatherstationname" msgpack:"weatherstationname"`
	MCC                string  `json:"mcc" msgpack:"mcc"`
	MNC                string  `json:"mnc" msgpack:"mnc"`
	MobileBrand        string  `json:"mobilebrand" msgpack:"mobilebrand"`
	Elevation          float32 `json:"elevation" msgpack:"elevation"`
	UsageType          string  `json:"usagetype" msgpack:"usagetype"`
	AddressType        string  `json:"addresstype" msgpack:"addresstype"`
	Category           string  `json:"category" msgpack:"category"`
	District           string  `json:"district" msgpack:"district"`
	ASN                string  `json:"asn" msgpack:"asn"`
	AS                 string  `json:"as" msgpack:"as"`
	Status             Status  `json:"status" msgpack:"status"`
}

func (r *Record) String() string {
	var b strings.Builder
	line := func(name string, v interface{}) {
		fmt.Fprintf(&b, "\t%s = %v\n", name, v)
	}
	b.WriteString("IP2LocationRecord:\n")
	line("IP Address", r.Address)
	line("Country Short", r.CountryShort)
	line("Country Long", r.CountryLong)
	line("Region", r.Region)
	line("City", r.City)
	line("ISP", r.ISP)
	line("Latitude", r.Latitude)
	line("Longitude", r.Longitude)
	line("Domain", r.Domain)
	line("ZipCode", r.ZipCode)
	line("TimeZone", r.TimeZone)
	line("NetSpeed", r.NetSpeed)
	line("IDDCode", r.IDDCode)
	line("AreaCode", r.AreaCode)
	line("WeatherStationCode", r.WeatherStationCode)
	line("WeatherStationName", r.WeatherStationName)
	line("MCC", r.MCC)
	line("MNC", r.MNC)
	line("MobileBrand", r.MobileBrand)
	line("Elevation", r.Elevation)
	line("UsageType", r.UsageType)
	line("AddressType", r.AddressType)
	line("Category", r.Category)
	line("District", r.District)
	line("ASN", r.ASN)
	line("AS", r.AS)
	line("Status", r.Status)
	return b.String()
}

// setString stores a decoded string field.
func (r *Record) setString(f Field, v string) {
	switch f {
	case Region:
		r.Region = v
	case City:
		r.City = v
	case ISP:
		r.ISP = v
	case Domain:
		r.Domain = v
	case ZipCode:
		r.ZipCode = v
	case TimeZone:
		r.TimeZone = v
	case NetSpeed:
		r.NetSpeed = v
	case IDDCode:
		r.IDDCode = v
	case AreaCode:
		r.AreaCode = v
	case WeatherStationCode:
		r.WeatherStationCode = v
	case WeatherStationName:
		r.WeatherStationName = v
	case MCC:
		r.MCC = v
	case MNC:
		r.MNC = v
	case MobileBrand:
		r.MobileBrand = v
	case UsageType:
		r.UsageType = v
	case AddressType:
		r.AddressType = v
	case Category:
		r.Category = v
	case District:
		r.District = v
	case ASN:
		r.ASN = v
	case AS:
		r.AS = v
	}
}
