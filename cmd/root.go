/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"github.com/josephgoksu/tasktrack/internal/account"
	"github.com/josephgoksu/tasktrack/internal/logger"
	"github.com/josephgoksu/tasktrack/internal/session"
	"github.com/josephgoksu/tasktrack/internal/task"
	"github.com/spf13/cobra"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tasktrack",
	Short: "tasktrack keeps a personal to-do list behind a simple login.",
	Long: `tasktrack is a small command-line task tracker.

Run it without arguments for the interactive menu: log in or register,
then add, delete, complete and display your tasks. Every change is written
to the task file immediately.

The subcommands perform the same operations non-interactively using
--user and --password.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVersion(version)
		logger.SetCommand(cmd.CommandPath())
		logger.SetBasePath(GetConfig().Storage.Dir)
	},
	RunE: runInteractive,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		HandleFatalError("Error: "+err.Error(), err)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.tasktrack.yaml or $HOME/.tasktrack.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.String("backend", "", "storage backend: text, json, yaml, toml or sqlite")
	flags.String("data-dir", "", "directory holding the users and tasks files")
	flags.Bool("enforce-ownership", false, "only allow deleting or completing your own tasks")
	flags.StringP("user", "u", "", "username for non-interactive commands")
	flags.StringP("password", "p", "", "password for non-interactive commands")

	bindFlags(rootCmd)
}

// runInteractive runs the login gate and task menu on stdin/stdout.
// Problems are reported and never change the exit status.
func runInteractive(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	s, err := GetStore()
	if err != nil {
		PrintError(cmd.ErrOrStderr(), "Unable to open the task store.", err)
		return nil
	}
	defer func() { _ = s.Close() }()
	logger.Debug("opened store", "backend", s.Describe())

	policy := taskPolicy()
	factory := func(owner string) *task.Service {
		return task.NewService(s, owner, task.WithPolicy(policy), task.WithLogger(logger))
	}

	sess := session.New(
		account.NewRegistry(s, logger),
		factory,
		session.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		cmd.OutOrStdout(),
		cmd.ErrOrStderr(),
		session.WithVerbose(isVerbose()),
		session.WithLogger(logger),
	)
	if err := sess.Run(); err != nil {
		PrintError(cmd.ErrOrStderr(), "The session ended unexpectedly.", err)
	}
	return nil
}
