package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open builds the store for backend. The returned closer is never nil.
func Open(ctx context.Context, backend, path, app string) (Store, io.Closer, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" {
		backend = BackendFile
	}

	if backend == BackendMemory {
		return NewMemory(), nopCloser{}, nil
	}

	path = strings.TrimSpace(path)
	if path == "" {
		var err error
		path, err = DefaultPath(app, backend)
		if err != nil {
			return nil, nil, err
		}
	}

	switch backend {
	case BackendFile:
		store, err := NewFile(path)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	case BackendSQLite:
		store, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session backend: %s", backend)
	}
}

// DefaultPath places session data in the user config directory.
func DefaultPath(app, backend string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config directory: %w", err)
	}

	name := "session.json"
	if backend == BackendSQLite {
		name = "session.db"
	}

	return filepath.Join(dir, app, name), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
