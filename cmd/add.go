/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <description...>",
	Short: "Add a task",
	Long: `Add a task owned by the logged-in user.

The new task gets the next ID after the largest existing one, across all
users, and is saved immediately.

Examples:
  tasktrack add "Buy milk" --deadline 2024-01-01 -u alice -p secret
  tasktrack add Pay the bills --deadline 2024-02-01`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addDeadline string

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addDeadline, "deadline", "d", "", "Deadline, e.g. 2024-01-01 (not validated)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	sess, err := login(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	description := strings.Join(args, " ")
	t, err := sess.tasks.Add(description, addDeadline)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added task %d: %s\n", t.ID, t.Description)
	return nil
}
