// Package storage provides the local key-value storage that holds the
// session credential and admin flag between runs.
//
// Values are plain strings, the same shape browser local storage offers.
// Callers that need typed data (see package session) do their own encoding.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Get when the key has never been set or was deleted
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key-value store
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Drivers accepted by Open
const (
	DriverFile    = "file"
	DriverKeyring = "keyring"
	DriverSQLite  = "sqlite"
	DriverMemory  = "memory"
)

const (
	configDirName   = "marquee"
	fileStoreName   = "storage.json"
	sqliteStoreName = "storage.sqlite"
)

// Open returns the store for driver. path overrides the default location for
// file and sqlite stores; namespace separates keyring entries per backend.
func Open(driver, path, namespace string) (Store, error) {
	switch driver {
	case DriverFile, "":
		if path == "" {
			p, err := defaultPath(fileStoreName)
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path), nil
	case DriverKeyring:
		return NewKeyringStore(namespace), nil
	case DriverSQLite:
		if path == "" {
			p, err := defaultPath(sqliteStoreName)
			if err != nil {
				return nil, err
			}
			path = p
		}
		return OpenSQLStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// defaultPath returns ~/.config/marquee/<name>
func defaultPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, name), nil
}
