package repository

import "errors"

// Names of the persisted credential entries. All three are cleared together.
const (
	KeyAccessToken  = "fintech_access_token"
	KeyRefreshToken = "fintech_refresh_token"
	KeyUser         = "fintech_user"
)

var SessionKeys = []string{KeyAccessToken, KeyRefreshToken, KeyUser}

var ErrEmptyKey = errors.New("credential key must not be empty")

// CredentialRepository is a synchronous key-value store. Get never touches
// the network.
type CredentialRepository interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(keys ...string) error
}
