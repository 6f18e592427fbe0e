package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const partSuffix = ".part"

// DiskStorage keeps files in a local directory, created on first write.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) *DiskStorage {
	return &DiskStorage{dir: dir}
}

func (d *DiskStorage) Dir() string { return d.dir }

// Put writes to a temporary ".part" file and renames it into place once the
// reader is drained, so readers of name never observe a partial upload.
func (d *DiskStorage) Put(ctx context.Context, name string, r io.Reader, contentType string) (int64, error) {
	name, err := cleanName(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}
	final := filepath.Join(d.dir, name)
	tmp := final + partSuffix
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(tmp)
		return n, err
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return n, fmt.Errorf("finalize %s: %w", name, err)
	}
	return n, nil
}

func (d *DiskStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (d *DiskStorage) Remove(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
