package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/josephgoksu/tasktrack/internal/account"
	"github.com/josephgoksu/tasktrack/internal/logging"
	"github.com/josephgoksu/tasktrack/internal/task"
	"github.com/josephgoksu/tasktrack/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// appFs is the filesystem used by flat-file backends. Tests swap it for an
// in-memory filesystem.
var appFs afero.Fs = afero.NewOsFs()

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func newLogger(cmd *cobra.Command) *log.Logger {
	cfg := GetConfig()
	return logging.New(cmd.ErrOrStderr(), logging.Options{
		Level:           cfg.Log.Level,
		Verbose:         cfg.Verbose,
		ReportTimestamp: cfg.Log.Timestamps,
		Prefix:          "tasktrack",
	})
}

// GetStore opens the backend selected by the configuration.
func GetStore() (store.Store, error) {
	cfg := GetConfig()
	s, err := store.Open(cfg.Storage, appFs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return s, nil
}

// taskPolicy returns the access policy from configuration.
func taskPolicy() task.Policy {
	return task.Policy{EnforceOwnership: GetConfig().Policy.EnforceOwnership}
}

// credentials returns --user/--password, falling back to TASKTRACK_USER and
// TASKTRACK_PASSWORD.
func credentials(cmd *cobra.Command) (string, string) {
	username, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	if username == "" {
		username = viper.GetString("user")
	}
	if password == "" {
		password = viper.GetString("password")
	}
	return username, password
}

// authenticated bundles what a non-interactive command needs after login.
type authenticated struct {
	store    store.Store
	accounts *account.Registry
	tasks    *task.Service
}

func (a *authenticated) Close() error {
	return a.store.Close()
}

// login opens the store, checks the credentials and loads the user's tasks.
func login(cmd *cobra.Command) (*authenticated, error) {
	logger := newLogger(cmd)

	s, err := GetStore()
	if err != nil {
		return nil, err
	}
	logger.Debug("opened store", "backend", s.Describe())

	accounts := account.NewRegistry(s, logger)
	if err := accounts.Load(); err != nil {
		_ = s.Close()
		return nil, err
	}

	username, password := credentials(cmd)
	if username == "" {
		_ = s.Close()
		return nil, fmt.Errorf("a username is required: pass --user or set %s_USER", envPrefix)
	}
	if !accounts.Authenticate(username, password) {
		_ = s.Close()
		return nil, fmt.Errorf("login failed for %q: %w", username, account.ErrAuthFailed)
	}

	tasks := task.NewService(s, username, task.WithPolicy(taskPolicy()), task.WithLogger(logger))
	if err := tasks.Load(); err != nil {
		_ = s.Close()
		return nil, err
	}

	return &authenticated{store: s, accounts: accounts, tasks: tasks}, nil
}

func parseTaskID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}
