package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/josephgoksu/tasktrack/store"
	"github.com/josephgoksu/tasktrack/types"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy accounts and tasks to another storage backend",
	Long: `Copy every account and task from the configured backend into another one.

Flat-file destinations get the extension of their format (users.yaml,
tasks.json, ...). The destination is overwritten. Switch to it afterwards
with --backend and the new file names in the config file.

Examples:
  tasktrack migrate --to sqlite
  tasktrack migrate --to yaml --to-dir ./export`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var (
	migrateTo    string
	migrateToDir string
)

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "Destination backend: text, json, yaml, toml or sqlite")
	migrateCmd.Flags().StringVar(&migrateToDir, "to-dir", "", "Destination directory (default: the current data directory)")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dstCfg := cfg.Storage
	dstCfg.Backend = migrateTo
	if migrateToDir != "" {
		dstCfg.Dir = migrateToDir
	}
	dstCfg = withFormatExtension(dstCfg)
	if dstCfg == cfg.Storage || overlaps(cfg.Storage, dstCfg) {
		return fmt.Errorf("destination %s would overwrite the source", dstCfg.Backend)
	}

	src, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := store.Open(dstCfg, appFs)
	if err != nil {
		return err
	}
	defer func() { _ = dst.Close() }()

	accounts, err := src.LoadAccounts()
	if err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}
	tasks, err := src.LoadTasks()
	if err != nil {
		return fmt.Errorf("read tasks: %w", err)
	}

	if err := dst.SaveAccounts(accounts); err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}
	if err := dst.SaveTasks(tasks); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}

	newLogger(cmd).Info("migrated", "from", src.Describe(), "to", dst.Describe())
	fmt.Fprintf(cmd.OutOrStdout(), "Copied %d accounts and %d tasks to %s.\n", len(accounts), len(tasks), dst.Describe())
	return nil
}

var formatExtensions = map[string]string{
	store.FormatText: ".txt",
	store.FormatJSON: ".json",
	store.FormatYAML: ".yaml",
	store.FormatTOML: ".toml",
}

// withFormatExtension renames flat files after their format.
func withFormatExtension(c types.StorageConfig) types.StorageConfig {
	ext, ok := formatExtensions[c.Backend]
	if !ok {
		return c
	}
	c.UsersFile = strings.TrimSuffix(c.UsersFile, filepath.Ext(c.UsersFile)) + ext
	c.TasksFile = strings.TrimSuffix(c.TasksFile, filepath.Ext(c.TasksFile)) + ext
	return c
}

// overlaps reports whether two flat-file configurations share a file.
func overlaps(a, b types.StorageConfig) bool {
	if a.Backend == store.BackendSQLite || b.Backend == store.BackendSQLite {
		return a.Backend == b.Backend && a.DatabasePath() == b.DatabasePath()
	}
	paths := map[string]bool{a.UsersPath(): true, a.TasksPath(): true}
	return paths[b.UsersPath()] || paths[b.TasksPath()]
}
