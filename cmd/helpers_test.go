package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/josephgoksu/tasktrack/models"
	"github.com/josephgoksu/tasktrack/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const testDataDir = "/data"

// resetFlags restores every flag to its default; cobra keeps flag values
// between Execute calls in the same process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// useMemFs points flat-file backends at a fresh in-memory filesystem.
func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	appFs = fs
	t.Cleanup(func() { appFs = afero.NewOsFs() })
	return fs
}

// executeCommand runs the CLI with the data directory set to testDataDir
// and returns what it wrote to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	viper.Reset()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--data-dir", testDataDir}, args...))

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func seedAccounts(t *testing.T, fs afero.Fs, accounts ...models.Account) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, testDataDir+"/users.txt", store.MarshalAccountsText(accounts), 0o644))
}

func seedTasks(t *testing.T, fs afero.Fs, tasks ...models.Task) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, testDataDir+"/tasks.txt", store.MarshalTasksText(tasks), 0o644))
}

func readFile(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, testDataDir+"/"+name)
	require.NoError(t, err)
	return string(data)
}
