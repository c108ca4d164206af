// Package metadata persists small key/value records in the local database.
package metadata

import (
	"context"
)

// Repository stores string values under string keys.
//
// Get reports ok=false, with a nil error, when the key is absent.
// Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
