package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "marquee-cli"

// KeyringStore keeps items in the OS keychain/credential manager.
// Keys are prefixed with the namespace so one machine can hold sessions for
// several backends.
type KeyringStore struct {
	namespace string
}

func NewKeyringStore(namespace string) *KeyringStore {
	return &KeyringStore{namespace: namespace}
}

// keyringKey returns a unique key for storing an item per namespace
func (k *KeyringStore) keyringKey(key string) string {
	if k.namespace == "" {
		return key
	}
	return fmt.Sprintf("%s-%s", k.namespace, key)
}

func (k *KeyringStore) Get(key string) (string, error) {
	value, err := keyring.Get(keyringService, k.keyringKey(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return value, nil
}

func (k *KeyringStore) Set(key, value string) error {
	if err := keyring.Set(keyringService, k.keyringKey(key), value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *KeyringStore) Delete(key string) error {
	if err := keyring.Delete(keyringService, k.keyringKey(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
