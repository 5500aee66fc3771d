package model

import (
	"context"
)

// Storage keeps small named objects, such as the simulated SMS outbox.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
