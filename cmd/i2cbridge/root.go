package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "i2cbridge",
	Short: "Expose an I2C bus over a line-oriented serial protocol",
	Long: `i2cbridge answers the I2C bridge line protocol on a serial port, stdio or a
TCP socket, executing each command on a simulated bus or a Linux i2c-dev
adapter.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
