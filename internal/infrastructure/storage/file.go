package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/feedbackhub/portal/internal/core/ports"
)

const appDir = "feedbackctl"

// DefaultSessionPath returns <user config dir>/feedbackctl/session.json,
// creating the directory when needed.
func DefaultSessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// FileRepository persists sessions as a single JSON document on disk. Every
// write replaces the file atomically, so a crash never leaves a token stored
// without its user.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) Get(_ context.Context, sid, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return "", err
	}
	v, ok := doc[sid][key]
	if !ok {
		return "", ports.ErrSessionEntryNotFound
	}
	return v, nil
}

func (r *FileRepository) Set(_ context.Context, sid string, entries map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	if doc[sid] == nil {
		doc[sid] = make(map[string]string, len(entries))
	}
	for k, v := range entries {
		doc[sid][k] = v
	}
	return atomicWriteFileJSON(r.path, doc)
}

func (r *FileRepository) Delete(_ context.Context, sid string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	s, ok := doc[sid]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(s, k)
	}
	if len(s) == 0 {
		delete(doc, sid)
	}
	return atomicWriteFileJSON(r.path, doc)
}

// load reads the whole document. A missing file is an empty document.
func (r *FileRepository) load() (map[string]map[string]string, error) {
	doc := make(map[string]map[string]string)
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return doc, nil
}

func atomicWriteFileJSON(filePath string, data any) error {
	tempFile := filePath + ".tmp"
	f, err := os.OpenFile(tempFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}
