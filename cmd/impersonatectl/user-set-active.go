package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// userSetActiveCmd represents the user set-active command
var userSetActiveCmd = &cobra.Command{
	Use:   "set-active <username> <true|false>",
	Short: "Activate or deactivate a user account",
	Long: `Activate or deactivate a user account. Inactive accounts can neither log
in nor impersonate, and cannot be impersonated.

Example:
  impersonatectl user set-active alice false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		active, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid active flag %q: %w", args[1], err)
		}

		users, err := openDatabaseUsersStore()
		if err != nil {
			return err
		}
		if err := users.SetActive(cmd.Context(), args[0], active); err != nil {
			return fmt.Errorf("failed to update %s: %w", args[0], err)
		}

		fmt.Fprintf(os.Stderr, "User '%s' active=%t\n", args[0], active)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userSetActiveCmd)
}
