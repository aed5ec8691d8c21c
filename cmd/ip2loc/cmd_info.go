package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var commandInfo = &cobra.Command{
	Use:   "info",
	Short: "Print the header of the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return info(cmd)
	},
}

func init() {
	mainCommand.AddCommand(commandInfo)
}

type databaseInfo struct {
	Package     string `json:"package" msgpack:"package"`
	Version     string `json:"version" msgpack:"version"`
	Columns     uint8  `json:"columns" msgpack:"columns"`
	CountV4     uint32 `json:"count_v4" msgpack:"count_v4"`
	CountV6     uint32 `json:"count_v6" msgpack:"count_v6"`
	Indexed     bool   `json:"indexed" msgpack:"indexed"`
	IndexedV6   bool   `json:"indexed_v6" msgpack:"indexed_v6"`
	ProductCode uint8  `json:"product_code" msgpack:"product_code"`
	ProductType uint8  `json:"product_type" msgpack:"product_type"`
	FileSize    uint32 `json:"file_size" msgpack:"file_size"`
}

func (i *databaseInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "package:      %s\n", i.Package)
	fmt.Fprintf(&b, "version:      %s\n", i.Version)
	fmt.Fprintf(&b, "columns:      %d\n", i.Columns)
	fmt.Fprintf(&b, "ipv4 rows:    %d (indexed: %t)\n", i.CountV4, i.Indexed)
	fmt.Fprintf(&b, "ipv6 rows:    %d (indexed: %t)\n", i.CountV6, i.IndexedV6)
	fmt.Fprintf(&b, "product:      %d/%d\n", i.ProductCode, i.ProductType)
	fmt.Fprintf(&b, "file size:    %d\n", i.FileSize)
	return b.String()
}

func info(cmd *cobra.Command) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	meta, ok := db.Metadata()
	if !ok {
		return fmt.Errorf("%s is not loaded", dbPath)
	}
	i := &databaseInfo{
		Package:     db.PackageVersion(),
		Version:     db.DatabaseVersion(),
		Columns:     meta.Columns,
		CountV4:     meta.CountV4,
		CountV6:     meta.CountV6,
		Indexed:     meta.Indexed(),
		IndexedV6:   meta.IndexedV6(),
		ProductCode: meta.ProductCode,
		ProductType: meta.ProductType,
		FileSize:    meta.FileSize,
	}
	return write(cmd.OutOrStdout(), i, i.String)
}
