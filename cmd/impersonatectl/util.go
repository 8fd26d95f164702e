package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func requireSubcommand(cmd *cobra.Command, names string) error {
	_ = cmd.Help()
	return fmt.Errorf("command '%s' requires a subcommand (%s)", cmd.Name(), names)
}
