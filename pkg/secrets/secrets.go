// Package secrets stores credentials in the OS-native keyring.
//
// Secrets are namespaced under a single service identifier and addressed by
// logical name (e.g. "gemini_api_key"). A missing secret is reported through
// ErrNotFound rather than a hard failure so callers can fall back to
// environment variables or configuration.
package secrets

import (
	"github.com/zalando/go-keyring"

	waiderrors "qed42.com/waid/pkg/errors"
)

// Service is the keychain service name under which all waid secrets live.
const Service = "waid"

// Well-known secret keys.
const (
	KeyGeminiAPIKey = "gemini_api_key"
	KeyOpenAIAPIKey = "openai_api_key"
	KeyGroqAPIKey   = "groq_api_key"
	KeyJiraToken    = "jira_api_token"
	KeyTempoToken   = "tempo_api_token"
)

// ErrNotFound is returned by Get when no secret exists under the key.
var ErrNotFound = waiderrors.New("secret not found")

// Store reads and writes secrets in the OS keyring.
type Store struct {
	service string
}

// NewStore creates a keyring-backed secret store for the default service.
func NewStore() *Store {
	return &Store{service: Service}
}

// NewStoreForService creates a store under a custom service name.
// Tests use this together with keyring.MockInit to avoid touching the
// real vault.
func NewStoreForService(service string) *Store {
	return &Store{service: service}
}

// Set stores a secret under the given logical key.
func (s *Store) Set(key, value string) error {
	if err := keyring.Set(s.service, key, value); err != nil {
		return waiderrors.NewSecretErrorWithCause("Set", key, "keyring write failed", err)
	}
	return nil
}

// Get retrieves the secret stored under key. Returns ErrNotFound when the
// key has never been stored.
func (s *Store) Get(key string) (string, error) {
	value, err := keyring.Get(s.service, key)
	if err != nil {
		if waiderrors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", waiderrors.NewSecretErrorWithCause("Get", key, "keyring read failed", err)
	}
	return value, nil
}

// Delete removes the secret stored under key. Deleting an absent key is a
// no-op.
func (s *Store) Delete(key string) error {
	if err := keyring.Delete(s.service, key); err != nil {
		if waiderrors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return waiderrors.NewSecretErrorWithCause("Delete", key, "keyring delete failed", err)
	}
	return nil
}

// Exists reports whether a secret is stored under key.
func (s *Store) Exists(key string) bool {
	_, err := s.Get(key)
	return err == nil
}
