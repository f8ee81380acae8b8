package store

import "github.com/josephgoksu/tasktrack/models"

// TaskStore defines the persistence port for tasks.
// Implementations read and rewrite the whole collection; there is no
// per-record update.
type TaskStore interface {
	// LoadTasks returns every stored task in storage order.
	// A store that has never been written returns an empty slice and no error.
	LoadTasks() ([]models.Task, error)

	// SaveTasks replaces the stored tasks with the given slice, preserving order.
	SaveTasks(tasks []models.Task) error
}

// AccountStore defines the persistence port for accounts.
type AccountStore interface {
	// LoadAccounts returns every stored account in storage order.
	// A missing credential file is not an error.
	LoadAccounts() ([]models.Account, error)

	// SaveAccounts overwrites the stored accounts with the given slice.
	SaveAccounts(accounts []models.Account) error
}

// Store is a backend that holds both collections.
type Store interface {
	TaskStore
	AccountStore

	// Describe returns a short human-readable location of the backend,
	// used in log and error messages.
	Describe() string

	// Close releases any resources held by the store, such as
	// database connections.
	Close() error
}
