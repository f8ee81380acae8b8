package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:     "done <task_id>",
	Aliases: []string{"complete", "d"},
	Short:   "Mark a task as done",
	Long:    `Mark a task as completed with today's date. Completing a task again moves its completion date to today.`,
	Example: `  # Complete a task
  tasktrack done 3 -u alice -p secret

  # Using alias
  tasktrack d 3`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	sess, err := login(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	t, err := sess.tasks.Complete(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "🎉 Task %d marked as done on %s.\n", t.ID, t.CompletionDate)
	return nil
}
