package main

import (
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/db"
	gormstore "github.com/doodlesbykumbi/impersonate-auth/pkg/server/store/gorm"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long:  `Create, inspect and (de)activate user accounts in the database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return requireSubcommand(cmd, "create, show, set-active")
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}

func openDatabaseUsersStore() (*gormstore.UsersStore, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	return gormstore.NewUsersStore(database), nil
}
