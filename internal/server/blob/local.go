package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkazarov/uploadgate/internal/common"
)

// LocalStore keeps payloads as plain files under a single directory.
// Save writes to a temp file in the same directory and renames it into
// place, so a key never points at a partially written file.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// validKey rejects anything that could escape the storage directory.
// Stored filenames are sanitized upstream; this is the package invariant.
func (s *LocalStore) validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: invalid storage key", common.ErrBadRequest)
	}
	return nil
}

func (s *LocalStore) Save(ctx context.Context, key string, r io.Reader) error {
	if err := s.validKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename blob: %w", err)
	}

	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := s.validKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}

	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := s.validKey(key); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrNotFound
		}
		return fmt.Errorf("remove blob: %w", err)
	}

	return nil
}
