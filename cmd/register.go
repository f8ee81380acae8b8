package cmd

import (
	"fmt"

	"github.com/josephgoksu/tasktrack/internal/account"
	"github.com/josephgoksu/tasktrack/models"
	"github.com/spf13/cobra"
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	Long:  `Register the account given by --user and --password. The users file is written immediately.`,
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	username, password := credentials(cmd)
	if err := models.ValidateStruct(models.Account{Username: username, Password: password}); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	s, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	accounts := account.NewRegistry(s, newLogger(cmd))
	if err := accounts.Load(); err != nil {
		return err
	}
	if accounts.Exists(username) {
		return fmt.Errorf("%q: %w", username, account.ErrUsernameTaken)
	}

	accounts.Register(username, password)
	if err := accounts.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registration successful. Welcome, %s.\n", username)
	return nil
}
