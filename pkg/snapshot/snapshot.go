// Package snapshot stores rendered HTML of a retained tree on disk, in a
// bbolt database or in S3.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/loom/pkg/dom"
)

// ErrInvalidKey is returned for keys that are empty or escape the store.
var ErrInvalidKey = errors.New("snapshot: invalid key")

// Store persists snapshot bodies by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Write renders node as HTML and stores it under key.
func Write(ctx context.Context, store Store, key string, node *dom.Node, opts dom.RenderOptions) error {
	var buf bytes.Buffer
	if err := dom.RenderHTML(&buf, node, opts); err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}
	if err := store.Put(ctx, key, "text/html; charset=utf-8", buf.Bytes()); err != nil {
		return fmt.Errorf("store snapshot %q: %w", key, err)
	}
	return nil
}

// FileStore writes snapshots below a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file path for key.
func (s *FileStore) Path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, clean), nil
}

// Put implements Store. The file is replaced atomically.
func (s *FileStore) Put(ctx context.Context, key, _ string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Open resolves a target to a store and key. "s3://bucket/path/key.html"
// selects S3 with client, "bolt:path/to/file.db#key" a BoltStore, anything
// else is a file path whose directory becomes a FileStore. Stores that
// implement io.Closer must be closed by the caller.
func Open(target string, client PutObjectAPI) (Store, string, error) {
	if rest, ok := strings.CutPrefix(target, "bolt:"); ok {
		path, key, _ := strings.Cut(rest, "#")
		if path == "" || key == "" {
			return nil, "", fmt.Errorf("%w: %q needs bolt:file#key", ErrInvalidKey, target)
		}
		store, err := OpenBoltStore(path)
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	}
	if rest, ok := strings.CutPrefix(target, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" || key == "" {
			return nil, "", fmt.Errorf("%w: %q needs s3://bucket/key", ErrInvalidKey, target)
		}
		if client == nil {
			return nil, "", errors.New("snapshot: no S3 client configured")
		}
		return NewS3Store(client, bucket, ""), key, nil
	}
	if target == "" {
		return nil, "", fmt.Errorf("%w: empty target", ErrInvalidKey)
	}
	return NewFileStore(filepath.Dir(target)), filepath.Base(target), nil
}
