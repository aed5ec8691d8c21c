package main

import (
	"fmt"
	"net"

	"github.com/proipinfo/ip2loc"
)

func main() {
	path := "path/to/IP2LOCATION-LITE-DB11.IPV6.BIN"
	db, err := ip2loc.OpenWithMode(path, ip2loc.ModeMapped)
	if err != nil {
		panic(err)
	}
	defer db.Close()
	fmt.Println(db.PackageVersion(), db.DatabaseVersion())

	// text lookup, the status tells how it went
	rec := db.Query("8.8.8.8")
	if rec.Status != ip2loc.StatusOK {
		panic(rec.Status.Err())
	}
	fmt.Println(rec.CountryLong, rec.City)

	// net.IP lookup, failures come back as errors
	recV6, err := db.GetRecord(net.ParseIP("2001:4860:4860::8888"))
	if err != nil {
		panic(err)
	}
	fmt.Println(recV6.CountryShort, recV6.Latitude, recV6.Longitude)
}
