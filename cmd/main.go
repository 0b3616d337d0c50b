package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

var configPath string

// @title                       VoxCredit API
// @version                     1.0
// @description                 Credit-metered text-to-speech with Razorpay top-ups.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:     "voxcredit",
		Short:   "VoxCredit - credit-metered text-to-speech API",
		Version: Version,
		// no subcommand runs the server
		RunE: runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(promoteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
