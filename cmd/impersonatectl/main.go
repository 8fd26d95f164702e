package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "impersonatectl",
	Short: "Run and manage the impersonate-auth server",
	Long: `impersonatectl runs the impersonate-auth HTTP server and manages its
database schema, users and configuration.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
