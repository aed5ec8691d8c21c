package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/proipinfo/ip2loc"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack"
)

var (
	dbPath       string
	useMmap      bool
	outputFormat string
	verbose      bool
)

var mainCommand = &cobra.Command{
	Use:           "ip2loc",
	Short:         "Query IP2Location BIN databases",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := mainCommand.PersistentFlags()
	flags.StringVarP(&dbPath, "db", "d", os.Getenv("IP2LOC_DB"), "database file, defaults to $IP2LOC_DB")
	flags.BoolVar(&useMmap, "mmap", false, "memory-map the database instead of reading it per query")
	flags.StringVarP(&outputFormat, "format", "f", "text", "output format: text, json or msgpack")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log database events to stderr")
}

func main() {
	log.SetPrefix("ip2loc: ")
	log.SetFlags(0)
	if err := mainCommand.Execute(); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(cmd *cobra.Command) (*ip2loc.DB, error) {
	if dbPath == "" {
		return nil, errors.New("no database given, use --db or IP2LOC_DB")
	}
	mode := ip2loc.ModeStream
	if useMmap {
		mode = ip2loc.ModeMapped
	}
	db, err := ip2loc.OpenWithMode(dbPath, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	if verbose {
		db.SetLogger(log.New(cmd.ErrOrStderr(), "ip2loc: ", 0))
	}
	return db, nil
}

// write renders v in the selected output format. text is only called for
// the text format.
func write(w io.Writer, v interface{}, text func() string) error {
	switch outputFormat {
	case "text":
		_, err := io.WriteString(w, text())
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("unknown output format %q", outputFormat)
}
