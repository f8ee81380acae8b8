/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "path/filepath"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Policy  PolicyConfig  `mapstructure:"policy"`
}

// LogConfig holds diagnostic logging settings
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Timestamps prefixes diagnostic lines with the time.
	Timestamps bool `mapstructure:"timestamps"`
}

// StorageConfig holds data storage configuration
type StorageConfig struct {
	// Backend is one of text, json, yaml, toml (flat files) or sqlite.
	Backend   string `mapstructure:"backend" validate:"required,oneof=text json yaml toml sqlite"`
	Dir       string `mapstructure:"dir"`
	UsersFile string `mapstructure:"usersFile" validate:"required"`
	TasksFile string `mapstructure:"tasksFile" validate:"required"`
	Database  string `mapstructure:"database" validate:"required"`
	// Lock takes an advisory file lock around each rewrite of a flat file.
	Lock bool `mapstructure:"lock"`
}

// PolicyConfig holds task access rules
type PolicyConfig struct {
	// EnforceOwnership restricts delete and complete to the session owner's tasks.
	EnforceOwnership bool `mapstructure:"enforceOwnership"`
}

// UsersPath returns the credential file path.
func (c StorageConfig) UsersPath() string {
	return c.join(c.UsersFile)
}

// TasksPath returns the task file path.
func (c StorageConfig) TasksPath() string {
	return c.join(c.TasksFile)
}

// DatabasePath returns the SQLite database path.
func (c StorageConfig) DatabasePath() string {
	if c.Database == ":memory:" {
		return c.Database
	}
	return c.join(c.Database)
}

func (c StorageConfig) join(name string) string {
	if c.Dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}
