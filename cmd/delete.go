/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <task_id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID.

Unless ownership is enforced (--enforce-ownership or policy.enforceOwnership),
any task ID can be deleted, whoever owns it.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	sess, err := login(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	if err := sess.tasks.Delete(id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Task %d deleted.\n", id)
	return nil
}
