package main

import (
	"github.com/spf13/cobra"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage impersonate-auth configuration",
	Long:  `Manage impersonate-auth configuration settings.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return requireSubcommand(cmd, "show, apply")
	},
}

func init() {
	rootCmd.AddCommand(configurationCmd)
}
