package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/identity"
)

// userShowCmd represents the user show command
var userShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show a user's account flags",
	Long: `Show a user's account flags as JSON. The password hash is never printed.

Example:
  impersonatectl user show alice`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := openDatabaseUsersStore()
		if err != nil {
			return err
		}
		user, err := users.FindByUsername(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(identity.FromUser(user), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	userCmd.AddCommand(userShowCmd)
}
