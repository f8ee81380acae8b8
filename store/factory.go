package store

import (
	"fmt"

	"github.com/josephgoksu/tasktrack/types"
	"github.com/spf13/afero"
)

// BackendSQLite selects the embedded database backend.
const BackendSQLite = "sqlite"

// Open returns the backend selected by cfg. Flat-file backends use fsys;
// file locking is only applied on the OS filesystem.
func Open(cfg types.StorageConfig, fsys afero.Fs) (Store, error) {
	switch cfg.Backend {
	case BackendSQLite:
		s, err := NewSQLiteStore(cfg.DatabasePath())
		if err != nil {
			return nil, fmt.Errorf("failed to open store at %s: %w", cfg.DatabasePath(), err)
		}
		return s, nil
	case FormatText, FormatJSON, FormatYAML, FormatTOML, "":
		format := cfg.Backend
		if format == "" {
			format = FormatText
		}
		_, onDisk := fsys.(*afero.OsFs)
		return NewFileStore(fsys, cfg.UsersPath(), cfg.TasksPath(),
			WithFormat(format),
			WithFileLock(cfg.Lock && onDisk),
		)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
