package main

import (
	"github.com/spf13/cobra"
)

var commandLookup = &cobra.Command{
	Use:   "lookup <address>...",
	Short: "Look up the records of one or more IP addresses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return lookup(cmd, args)
	},
}

func init() {
	mainCommand.AddCommand(commandLookup)
}

func lookup(cmd *cobra.Command, addresses []string) error {
	db, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, address := range addresses {
		rec := db.Query(address)
		if err := write(cmd.OutOrStdout(), rec, rec.String); err != nil {
			return err
		}
	}
	return nil
}
