/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tasks",
	Long: `List the logged-in user's tasks in file order.

Other users' tasks are never shown.

Examples:
  tasktrack list -u alice -p secret
  tasktrack list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listJSON bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output tasks as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := login(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	out := cmd.OutOrStdout()
	if listJSON {
		return printJSON(out, sess.tasks.Owned())
	}

	sess.tasks.Display(out)
	if sum := sess.tasks.Stats(); sum.Total() > 0 {
		fmt.Fprintf(out, "\n%d open, %d completed\n", sum.Open, sum.Completed)
	}
	return nil
}
