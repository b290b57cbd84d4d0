// Package metadata is a small key/value store for client state that must
// outlive a process, such as the session credential.
package metadata

import (
	"context"
)

// Repository stores opaque values under string keys. A missing key reads
// as (nil, nil).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
