package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Read when the key has never been written.
var ErrNotFound = errors.New("slot not found")

// Slot is a keyed blob store. Each key holds one serialized value that is
// replaced wholesale on every write.
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Open returns the slot implementation named by backend.
func Open(backend, path string) (Slot, error) {
	switch backend {
	case "", BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendJSON:
		s, err := OpenDir(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
