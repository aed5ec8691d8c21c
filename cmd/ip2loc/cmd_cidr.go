package main

import (
	"fmt"
	"strings"

	"github.com/proipinfo/ip2loc/iptools"
	"github.com/spf13/cobra"
)

var commandCIDR = &cobra.Command{
	Use:   "cidr",
	Short: "Convert between address ranges and CIDR blocks",
}

var commandCIDRFromRange = &cobra.Command{
	Use:   "from-range <first> <last>",
	Short: "List the CIDR blocks covering an address range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cidrFromRange(cmd, args[0], args[1])
	},
}

var commandCIDRToRange = &cobra.Command{
	Use:   "to-range <cidr>",
	Short: "Print the first and last address of a CIDR block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cidrToRange(cmd, args[0])
	},
}

func init() {
	commandCIDR.AddCommand(commandCIDRFromRange, commandCIDRToRange)
	mainCommand.AddCommand(commandCIDR)
}

func cidrFromRange(cmd *cobra.Command, first, last string) error {
	convert := iptools.IPv6ToCIDR
	if iptools.IsIPv4(first) {
		convert = iptools.IPv4ToCIDR
	}
	blocks, err := convert(first, last)
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), blocks, func() string {
		if len(blocks) == 0 {
			return ""
		}
		return strings.Join(blocks, "\n") + "\n"
	})
}

type addressRange struct {
	First string `json:"first" msgpack:"first"`
	Last  string `json:"last" msgpack:"last"`
}

func cidrToRange(cmd *cobra.Command, cidr string) error {
	convert := iptools.CIDRToIPv6
	if strings.Contains(cidr, ".") {
		convert = iptools.CIDRToIPv4
	}
	first, last, err := convert(cidr)
	if err != nil {
		return err
	}
	r := addressRange{First: first, Last: last}
	return write(cmd.OutOrStdout(), r, func() string {
		return fmt.Sprintf("%s\n%s\n", r.First, r.Last)
	})
}
