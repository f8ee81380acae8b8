// Package account holds the credential list used to gate a session.
package account

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/josephgoksu/tasktrack/internal/logging"
	"github.com/josephgoksu/tasktrack/models"
)

var (
	// ErrAuthFailed is returned when no account matches the given credentials.
	ErrAuthFailed = errors.New("invalid username or password")
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrStorageUnread is returned by Save after a failed Load, so that
	// accounts which could not be read are never overwritten.
	ErrStorageUnread = errors.New("account storage was not read")
)

// Repository defines the data access methods required by the Registry.
type Repository interface {
	LoadAccounts() ([]models.Account, error)
	SaveAccounts(accounts []models.Account) error
}

// Registry owns the in-memory account list for one program run.
type Registry struct {
	repo     Repository
	accounts []models.Account
	logger   *log.Logger

	// loadErr is the error from the last Load, if it failed.
	loadErr error
}

// NewRegistry creates an empty Registry. Call Load to read stored accounts.
func NewRegistry(repo Repository, logger *log.Logger) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Registry{
		repo:     repo,
		accounts: []models.Account{},
		logger:   logger,
	}
}

// Load replaces the in-memory list with the stored accounts.
// A missing credential file is an empty list. On a read failure the list is
// left empty, the error is returned, and Save refuses to write until a later
// Load succeeds. Registrations still work for the rest of the run.
func (r *Registry) Load() error {
	accounts, err := r.repo.LoadAccounts()
	if err != nil {
		r.accounts = []models.Account{}
		r.loadErr = err
		return fmt.Errorf("load accounts: %w", err)
	}
	r.accounts = accounts
	r.loadErr = nil
	r.logger.Debug("loaded accounts", "count", len(accounts))
	return nil
}

// Save overwrites storage with the in-memory list, in order.
func (r *Registry) Save() error {
	if r.loadErr != nil {
		return fmt.Errorf("save accounts: %w: %v", ErrStorageUnread, r.loadErr)
	}
	if err := r.repo.SaveAccounts(r.accounts); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	r.logger.Debug("saved accounts", "count", len(r.accounts))
	return nil
}

// Accounts returns a copy of the in-memory list.
func (r *Registry) Accounts() []models.Account {
	return slices.Clone(r.accounts)
}

// Exists reports whether username is registered.
func (r *Registry) Exists(username string) bool {
	return Exists(username, r.accounts)
}

// Authenticate reports whether username and password match a registered account.
func (r *Registry) Authenticate(username, password string) bool {
	ok := Authenticate(username, password, r.accounts)
	r.logger.Debug("authentication attempt", "username", username, "ok", ok)
	return ok
}

// Register appends a new account without checking for duplicates; callers
// check Exists first.
func (r *Registry) Register(username, password string) models.Account {
	r.accounts = Register(username, password, r.accounts)
	r.logger.Debug("registered account", "username", username)
	return r.accounts[len(r.accounts)-1]
}

// Exists reports whether any account has exactly this username.
func Exists(username string, accounts []models.Account) bool {
	return slices.ContainsFunc(accounts, func(a models.Account) bool {
		return a.Username == username
	})
}

// Authenticate reports whether some account matches both fields exactly.
func Authenticate(username, password string, accounts []models.Account) bool {
	return slices.ContainsFunc(accounts, func(a models.Account) bool {
		return a.Username == username && a.Password == password
	})
}

// Register returns accounts with a new account appended.
func Register(username, password string, accounts []models.Account) []models.Account {
	return append(accounts, models.Account{Username: username, Password: password})
}
