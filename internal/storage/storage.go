// Package storage provides key to bytes persistence backends for the
// feedback collection blob.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no blob exists under the key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a synchronous key/value blob store. Deleting a missing key is
// not an error.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
