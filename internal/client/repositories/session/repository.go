// Package session persists CLI session values (the server URL a token was
// issued by, the token itself) in the local SQLite database.
package session

import "context"

// Well-known keys.
const (
	KeyAccessToken = "access_token"
	KeyServerURL   = "server_url"
	KeyEmail       = "email"
)

type Repository interface {
	// Get returns ok=false when key is not stored.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
