package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/josephgoksu/tasktrack/models"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"

	lockSuffix = ".lock"
)

// FileStore implements Store on top of two flat files, one for accounts and
// one for tasks. Every save rewrites the whole file.
type FileStore struct {
	fs        afero.Fs
	usersPath string
	tasksPath string
	format    string
	lock      bool
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFormat selects the on-disk format (text, json, yaml or toml).
func WithFormat(format string) FileStoreOption {
	return func(s *FileStore) { s.format = strings.ToLower(format) }
}

// WithFileLock holds an advisory lock on "<file>.lock" around every read and
// rewrite. Only meaningful on the OS filesystem.
func WithFileLock(enabled bool) FileStoreOption {
	return func(s *FileStore) { s.lock = enabled }
}

// NewFileStore creates a FileStore for the given users and tasks files.
func NewFileStore(fsys afero.Fs, usersPath, tasksPath string, opts ...FileStoreOption) (*FileStore, error) {
	s := &FileStore{
		fs:        fsys,
		usersPath: usersPath,
		tasksPath: tasksPath,
		format:    FormatText,
	}
	for _, opt := range opts {
		opt(s)
	}
	switch s.format {
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
	default:
		return nil, fmt.Errorf("unsupported file format: %s. Supported formats are text, json, yaml, toml", s.format)
	}
	return s, nil
}

// Describe returns the file locations and format.
func (s *FileStore) Describe() string {
	return fmt.Sprintf("%s files %s, %s", s.format, s.usersPath, s.tasksPath)
}

// Close is a no-op; files are opened per operation.
func (s *FileStore) Close() error {
	return nil
}

// LoadTasks reads the tasks file. A missing file yields no tasks.
func (s *FileStore) LoadTasks() ([]models.Task, error) {
	data, err := s.read(s.tasksPath)
	if err != nil || len(data) == 0 {
		return []models.Task{}, err
	}

	if s.format == FormatText {
		return UnmarshalTasksText(data)
	}
	if s.format == FormatJSON {
		if err := validateJSONDocument(taskListJSONSchema, data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", s.tasksPath, err)
		}
	}
	var list models.TaskList
	if err := s.unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.tasksPath, err)
	}
	if list.Tasks == nil {
		list.Tasks = []models.Task{}
	}
	return list.Tasks, nil
}

// SaveTasks rewrites the tasks file.
func (s *FileStore) SaveTasks(tasks []models.Task) error {
	var data []byte
	if s.format == FormatText {
		data = MarshalTasksText(tasks)
	} else {
		var err error
		data, err = s.marshal(models.TaskList{Tasks: tasks})
		if err != nil {
			return fmt.Errorf("failed to marshal tasks to %s: %w", s.format, err)
		}
	}
	return s.write(s.tasksPath, data)
}

// LoadAccounts reads the users file. A missing file yields no accounts.
func (s *FileStore) LoadAccounts() ([]models.Account, error) {
	data, err := s.read(s.usersPath)
	if err != nil || len(data) == 0 {
		return []models.Account{}, err
	}

	if s.format == FormatText {
		return UnmarshalAccountsText(data)
	}
	if s.format == FormatJSON {
		if err := validateJSONDocument(accountListJSONSchema, data); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", s.usersPath, err)
		}
	}
	var list models.AccountList
	if err := s.unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.usersPath, err)
	}
	if list.Accounts == nil {
		list.Accounts = []models.Account{}
	}
	return list.Accounts, nil
}

// SaveAccounts rewrites the users file.
func (s *FileStore) SaveAccounts(accounts []models.Account) error {
	var data []byte
	if s.format == FormatText {
		data = MarshalAccountsText(accounts)
	} else {
		var err error
		data, err = s.marshal(models.AccountList{Accounts: accounts})
		if err != nil {
			return fmt.Errorf("failed to marshal accounts to %s: %w", s.format, err)
		}
	}
	return s.write(s.usersPath, data)
}

func (s *FileStore) read(path string) ([]byte, error) {
	if exists, err := afero.Exists(s.fs, path); err == nil && !exists {
		return nil, nil
	}

	if s.lock {
		flk := flock.New(path + lockSuffix)
		if err := flk.RLock(); err != nil {
			return nil, fmt.Errorf("could not lock %s for reading: %w", path, err)
		}
		defer func() { _ = flk.Unlock() }()
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to open %s for reading: %w", path, err)
	}
	return data, nil
}

func (s *FileStore) write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if s.lock {
		flk := flock.New(path + lockSuffix)
		if err := flk.Lock(); err != nil {
			return fmt.Errorf("could not lock %s for writing: %w", path, err)
		}
		defer func() { _ = flk.Unlock() }()
	}

	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("unable to open %s for writing: %w", path, err)
	}
	return nil
}

func (s *FileStore) marshal(v interface{}) ([]byte, error) {
	switch s.format {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
}

func (s *FileStore) unmarshal(data []byte, v interface{}) error {
	switch s.format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}
}
