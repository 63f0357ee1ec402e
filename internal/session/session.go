// Package session is the single access layer for the locally stored session
// credential and admin flag. The navigation guard and the API client both
// read through State and never touch storage directly.
package session

import (
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/marquee-app/marquee/internal/storage"
)

// Storage keys shared with the login flow
const (
	TokenKey = "token"
	AdminKey = "isAdmin"
)

// adminTrue is the only admin flag value treated as an admin.
// The login flow writes strconv.FormatBool output, so "True" or "1" never match.
const adminTrue = "true"

// State is the read-only view of the current session
type State interface {
	// Token returns the bearer credential, or "" when not logged in
	Token() string
	// IsAdmin reports whether the stored admin flag is exactly "true"
	IsAdmin() bool
}

// Accessor implements State over a storage.Store
type Accessor struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewAccessor returns an Accessor reading and writing through store
func NewAccessor(store storage.Store, log zerolog.Logger) *Accessor {
	return &Accessor{store: store, logger: log}
}

// Token returns the stored credential, or "" when none is stored
func (a *Accessor) Token() string {
	return a.read(TokenKey)
}

// IsAdmin reports whether the stored admin flag is exactly "true"
func (a *Accessor) IsAdmin() bool {
	return a.read(AdminKey) == adminTrue
}

// LoggedIn reports whether a non-empty credential is stored
func (a *Accessor) LoggedIn() bool {
	return a.Token() != ""
}

// Save stores the credential and admin flag after a successful login
func (a *Accessor) Save(token string, isAdmin bool) error {
	if err := a.store.Set(TokenKey, token); err != nil {
		return err
	}
	return a.store.Set(AdminKey, strconv.FormatBool(isAdmin))
}

// Clear removes the credential and admin flag
func (a *Accessor) Clear() error {
	return errors.Join(
		a.store.Delete(TokenKey),
		a.store.Delete(AdminKey),
	)
}

// read treats unreadable storage the same as an absent key
func (a *Accessor) read(key string) string {
	value, err := a.store.Get(key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn().Err(err).Str("key", key).Msg("Failed to read session state")
		}
		return ""
	}
	return value
}

// Static is a fixed State, useful where the session is known up front
type Static struct {
	Credential string
	Admin      bool
}

func (s Static) Token() string { return s.Credential }

func (s Static) IsAdmin() bool { return s.Admin }
