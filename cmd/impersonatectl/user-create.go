package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/model"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/password"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a user account",
	Long: `Create a user account with a bcrypt password hash.

The password is read from the first line of stdin unless --password is given.

Example:
  echo 'Secret1' | impersonatectl user create root --superuser
  impersonatectl user create alice --password alice-pw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, _ := cmd.Flags().GetString("password")
		if pw == "" {
			var err error
			if pw, err = readPassword(cmd.InOrStdin()); err != nil {
				return err
			}
		}

		user, err := newUser(args[0], pw, password.NewBcryptHasher())
		if err != nil {
			return err
		}
		user.IsSuperuser, _ = cmd.Flags().GetBool("superuser")
		for _, w := range separatorWarnings(user.Username, pw, user.IsSuperuser, config.Get().Separator) {
			fmt.Fprintln(os.Stderr, "Warning: "+w)
		}
		user.IsStaff, _ = cmd.Flags().GetBool("staff")
		inactive, _ := cmd.Flags().GetBool("inactive")
		user.IsActive = !inactive

		users, err := openDatabaseUsersStore()
		if err != nil {
			return err
		}
		if err := users.CreateUser(cmd.Context(), user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Username, err)
		}

		fmt.Fprintf(os.Stderr, "Created user '%s'\n", user.Username)
		fmt.Println(user.ID)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("password", "", "Password (read from stdin if empty)")
	userCreateCmd.Flags().Bool("superuser", false, "Grant superuser status")
	userCreateCmd.Flags().Bool("staff", false, "Grant staff status")
	userCreateCmd.Flags().Bool("inactive", false, "Create the account inactive")
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newUser(username, pw string, hasher password.Hasher) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username must not be empty")
	}
	hash, err := hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &model.User{Username: username, PasswordHash: hash, IsActive: true}, nil
}

// separatorWarnings lists the reasons an account's credentials can never form
// a valid impersonation secret.
func separatorWarnings(username, pw string, superuser bool, sep string) []string {
	if sep == "" {
		return nil
	}
	var warnings []string
	if strings.Contains(username, sep) {
		warnings = append(warnings, fmt.Sprintf("username contains the impersonation separator %q and cannot impersonate anyone", sep))
	}
	if superuser && strings.Contains(pw, sep) {
		warnings = append(warnings, fmt.Sprintf("password contains the impersonation separator %q; this superuser cannot impersonate anyone", sep))
	}
	return warnings
}
