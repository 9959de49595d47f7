package cheque

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage defines the interface for archiving uploaded cheque images
type Storage interface {
	// Save saves a file and returns the path/filename
	Save(filename string, data []byte) (string, error)

	// Get retrieves a file by path
	Get(path string) ([]byte, error)

	// Find returns the first archived filename starting with prefix
	Find(prefix string) (string, error)
}

// LocalStorage implements the Storage interface using the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Save saves a file to local storage
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get retrieves a file from local storage
func (l *LocalStorage) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Find returns the first archived filename starting with prefix
func (l *LocalStorage) Find(prefix string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(l.basePath, prefix+"*"))
	if err != nil {
		return "", fmt.Errorf("searching archive: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no archived file with prefix %q", prefix)
	}
	return filepath.Base(matches[0]), nil
}
