package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrExists is returned when saving to a name that is already taken.
	ErrExists = errors.New("file already exists")
	// ErrNotExist is returned when removing a name that holds no file.
	ErrNotExist = errors.New("file does not exist")
)

// Storage persists uploaded document files under flat names.
type Storage interface {
	// Save writes the content under name. The name is the collision guard:
	// saving over an existing file fails with ErrExists and writes nothing.
	Save(ctx context.Context, name string, r io.Reader) error

	// Remove deletes the file stored under name. A missing file is reported
	// as ErrNotExist so callers can treat it as a soft condition.
	Remove(ctx context.Context, name string) error

	// Exists reports whether a file is stored under name.
	Exists(ctx context.Context, name string) (bool, error)
}
