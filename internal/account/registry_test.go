package account

import (
	"errors"
	"testing"

	"github.com/josephgoksu/tasktrack/models"
	"github.com/josephgoksu/tasktrack/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct{}

func (failingRepo) LoadAccounts() ([]models.Account, error) {
	return nil, errors.New("disk on fire")
}

func (failingRepo) SaveAccounts([]models.Account) error {
	return errors.New("disk on fire")
}

func newTestRegistry(t *testing.T, usersFile string) (*Registry, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if usersFile != "" {
		require.NoError(t, afero.WriteFile(fs, "users.txt", []byte(usersFile), 0o644))
	}
	s, err := store.NewFileStore(fs, "users.txt", "tasks.txt")
	require.NoError(t, err)

	r := NewRegistry(s, nil)
	require.NoError(t, r.Load())
	return r, fs
}

func TestRegistry_LoadMissingFileIsEmpty(t *testing.T) {
	r, _ := newTestRegistry(t, "")

	assert.Empty(t, r.Accounts())
	assert.False(t, r.Exists("alice"))
}

func TestRegistry_ExistsAndAuthenticate(t *testing.T) {
	r, _ := newTestRegistry(t, "alice secret\nbob hunter2\n")

	assert.True(t, r.Exists("alice"))
	assert.False(t, r.Exists("Alice"), "usernames are case-sensitive")
	assert.False(t, r.Exists("carol"))

	assert.True(t, r.Authenticate("bob", "hunter2"))
	assert.False(t, r.Authenticate("bob", "secret"))
	assert.False(t, r.Authenticate("carol", ""))
}

func TestRegistry_RegisterThenSave(t *testing.T) {
	r, fs := newTestRegistry(t, "alice secret\n")

	acct := r.Register("bob", "hunter2")
	assert.Equal(t, models.Account{Username: "bob", Password: "hunter2"}, acct)
	assert.True(t, r.Authenticate("bob", "hunter2"))

	// Nothing is written until Save.
	data, err := afero.ReadFile(fs, "users.txt")
	require.NoError(t, err)
	assert.Equal(t, "alice secret\n", string(data))

	require.NoError(t, r.Save())
	data, err = afero.ReadFile(fs, "users.txt")
	require.NoError(t, err)
	assert.Equal(t, "alice secret\nbob hunter2\n", string(data))
}

func TestRegistry_RegisterDoesNotEnforceUniqueness(t *testing.T) {
	r, _ := newTestRegistry(t, "alice secret\n")

	r.Register("alice", "other")

	assert.Len(t, r.Accounts(), 2)
	assert.True(t, r.Authenticate("alice", "secret"))
	assert.True(t, r.Authenticate("alice", "other"))
}

func TestRegistry_AccountsReturnsCopy(t *testing.T) {
	r, _ := newTestRegistry(t, "alice secret\n")

	accounts := r.Accounts()
	accounts[0].Password = "changed"

	assert.True(t, r.Authenticate("alice", "secret"))
}

func TestRegistry_LoadFailure(t *testing.T) {
	r := NewRegistry(failingRepo{}, nil)

	err := r.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load accounts")
	assert.Empty(t, r.Accounts())

	assert.Error(t, r.Save())
}

type flakyRepo struct {
	loadErr error
	saved   []models.Account
	saves   int
}

func (f *flakyRepo) LoadAccounts() ([]models.Account, error) {
	return []models.Account{{Username: "alice", Password: "pw"}}, f.loadErr
}

func (f *flakyRepo) SaveAccounts(accounts []models.Account) error {
	f.saves++
	f.saved = accounts
	return nil
}

func TestRegistry_SaveAfterFailedLoadDoesNotOverwrite(t *testing.T) {
	repo := &flakyRepo{loadErr: errors.New("schema mismatch")}
	r := NewRegistry(repo, nil)
	require.Error(t, r.Load())

	r.Register("bob", "pw2")
	assert.True(t, r.Authenticate("bob", "pw2"), "registrations still work in memory")

	err := r.Save()
	assert.ErrorIs(t, err, ErrStorageUnread)
	assert.Zero(t, repo.saves)

	// A later successful load clears the guard.
	repo.loadErr = nil
	require.NoError(t, r.Load())
	require.NoError(t, r.Save())
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, []models.Account{{Username: "alice", Password: "pw"}}, repo.saved)
}

func TestStatelessHelpers(t *testing.T) {
	var accounts []models.Account
	assert.False(t, Exists("alice", accounts))

	accounts = Register("alice", "secret", accounts)
	assert.True(t, Exists("alice", accounts))
	assert.True(t, Authenticate("alice", "secret", accounts))
	assert.False(t, Authenticate("alice", "wrong", accounts))
}
