// Package storage keeps uploaded files by name. DiskStorage is the default
// backend; MinIOStorage puts them in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned by Open and Remove for names that are not stored.
var ErrNotFound = errors.New("file not found")

// ErrInvalidName rejects names that would escape the storage root.
var ErrInvalidName = errors.New("invalid file name")

// Storage is the backend contract used by the intake.
type Storage interface {
	// Put stores r under name and returns the number of bytes written. A
	// failed Put leaves nothing behind under name.
	Put(ctx context.Context, name string, r io.Reader, contentType string) (int64, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, name string) error
}

// cleanName accepts a bare file name only.
func cleanName(name string) (string, error) {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	return name, nil
}
