package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-i2cbridge/protocol"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of i2cbridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "i2cbridge version %s (protocol %s)\n", version, protocol.ProtocolVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
