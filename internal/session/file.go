package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// fileStore keeps a small JSON key-value document on disk.
// Unknown keys in the document are preserved.
type fileStore struct {
	path string
}

// errCorrupt marks a document that exists but cannot be parsed.
var errCorrupt = errors.New("corrupt session document")

func NewFile(path string) (Store, error) {
	if path == "" {
		return nil, errors.New("session file path is required")
	}
	return &fileStore{path: path}, nil
}

func (f *fileStore) Get(context.Context) (string, error) {
	doc, err := f.read()
	if err != nil {
		return "", err
	}

	token, _ := doc[Key].(string)
	return token, nil
}

func (f *fileStore) Set(_ context.Context, token string) error {
	doc, err := f.writable()
	if err != nil {
		return err
	}

	doc[Key] = token
	return f.write(doc)
}

// Clear removes the token. A corrupt document is replaced with an empty one.
func (f *fileStore) Clear(context.Context) error {
	doc, err := f.read()
	if errors.Is(err, errCorrupt) {
		return f.write(map[string]any{})
	}
	if err != nil {
		return err
	}

	if _, ok := doc[Key]; !ok {
		return nil
	}

	delete(doc, Key)
	return f.write(doc)
}

func (f *fileStore) read() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	doc := map[string]any{}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w: %w", f.path, errCorrupt, err)
	}

	return doc, nil
}

// writable reads the document for an update. A corrupt document is overwritten.
func (f *fileStore) writable() (map[string]any, error) {
	doc, err := f.read()
	if errors.Is(err, errCorrupt) {
		return map[string]any{}, nil
	}
	return doc, err
}

// write replaces the document through a rename so readers never see a partial file.
func (f *fileStore) write(doc map[string]any) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return nil
}
