package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the path provided to the Store points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

const (
	defaultFileMode = 0o600
	defaultDirMode  = 0o750
)

// Store implements config.Store for a single file on the local filesystem.
type Store struct {
	filepath string
	mode     fs.FileMode
}

// Option configures a Store.
type Option func(*Store)

// WithFileMode sets the permissions used when the file is created.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *Store) {
		s.mode = mode
	}
}

// NewStore returns a constructor function that creates a file-based Store for fpath.
// This pattern is Fx-friendly, allowing the DI container to control when instantiation happens.
// Returns an error if the path exists and is a directory.
func NewStore(fpath string, opts ...Option) func() (*Store, error) {
	return func() (*Store, error) {
		cleanPath := filepath.Clean(fpath)

		err := checkNotDirectory(cleanPath)
		if err != nil {
			return nil, err
		}

		store := &Store{
			filepath: cleanPath,
			mode:     defaultFileMode,
		}

		for _, apply := range opts {
			apply(store)
		}

		return store, nil
	}
}

// Path returns the cleaned path of the backing file.
func (s *Store) Path() string {
	return s.filepath
}

// Fetch reads the current file contents. A missing file yields empty data.
func (s *Store) Fetch() ([]byte, error) {
	err := checkNotDirectory(s.filepath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filepath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading file %q: %w", s.filepath, err)
	}

	return data, nil
}

// Persist replaces the file contents with data.
func (s *Store) Persist(data []byte) error {
	dir := filepath.Dir(s.filepath)

	err := os.MkdirAll(dir, defaultDirMode)
	if err != nil {
		return fmt.Errorf("creating directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.filepath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", s.filepath, err)
	}

	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	_, err = tmp.Write(data)
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("writing file %q: %w", s.filepath, err)
	}

	err = tmp.Chmod(s.mode)
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("setting mode on %q: %w", s.filepath, err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("closing file %q: %w", s.filepath, err)
	}

	err = os.Rename(tmpName, s.filepath)
	if err != nil {
		return fmt.Errorf("replacing file %q: %w", s.filepath, err)
	}

	return nil
}

func checkNotDirectory(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("stat file %q: %w", path, err)
	}

	if stat.IsDir() {
		return fmt.Errorf("path %q: %w", path, ErrPathIsDirectory)
	}

	return nil
}
