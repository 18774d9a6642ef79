package metadata

import (
	"context"
)

// Repository is a persistent key/value store. Get returns (nil, nil) for an
// absent key; Delete of an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Table names one of the key/value tables created by the local migrations.
type Table string

const (
	// TableSession backs the session store (token, userId, userDetails).
	TableSession Table = "session"
	// TableGallery backs the local gallery (uploadedImages).
	TableGallery Table = "gallery"
)
