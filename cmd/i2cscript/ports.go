package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-i2cbridge/internal/transport"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the serial ports present on this system",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := transport.Ports()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
			return nil
		}
		for _, p := range ports {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
