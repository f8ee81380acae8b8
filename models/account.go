package models

// Account is a username/password pair allowing login.
// Passwords are stored as entered.
type Account struct {
	Username string `json:"username" yaml:"username" toml:"username" validate:"required"`
	Password string `json:"password" yaml:"password" toml:"password" validate:"required"`
}

// AccountList represents a collection of accounts as stored in document formats.
type AccountList struct {
	Accounts []Account `json:"accounts" yaml:"accounts" toml:"accounts" validate:"dive"`
}
