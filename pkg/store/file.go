package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/io"
)

const fileExt = ".json"

// FileStore keeps each dataset as <dir>/<name>.json.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create store dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

func (s *FileStore) Save(_ context.Context, name string, recs []io.Record) error {
	if err := errors.ValidateDatasetName(name); err != nil {
		return err
	}

	// Write to a sibling file first so a failed save never truncates the
	// previous version.
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save %s", name)
	}
	defer os.Remove(tmp.Name())

	if err := io.WriteRecords(recs, io.FormatJSON, tmp); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "save %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save %s", name)
	}
	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save %s", name)
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, name string) ([]io.Record, error) {
	if err := errors.ValidateDatasetName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(name))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "dataset %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load %s", name)
	}
	defer f.Close()

	recs, err := io.ReadRecords(f, io.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return recs, nil
}

func (s *FileStore) List(context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list %s", s.dir)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := errors.ValidateDatasetName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeNotFound, "dataset %q not found", name)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete %s", name)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
