package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps every key in one JSON object on disk. Writes go to a temp file that is
// renamed over the original.
type FileKV struct {
	mu   sync.Mutex
	path string
}

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (kv *FileKV) load() (map[string]string, error) {
	b, err := os.ReadFile(kv.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	m := map[string]string{}
	if err := json.Unmarshal(b, &m); err != nil {
		// Best-effort; if corrupted, treat as empty.
		return map[string]string{}, nil
	}
	return m, nil
}

func (kv *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	if kv.path == "" {
		return "", false, ErrUnavailable
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	m, err := kv.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (kv *FileKV) Set(ctx context.Context, key, value string) error {
	return kv.SetMany(ctx, map[string]string{key: value})
}

// SetMany rewrites the document once with every value applied.
func (kv *FileKV) SetMany(_ context.Context, values map[string]string) error {
	if kv.path == "" {
		return ErrUnavailable
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	m, err := kv.load()
	if err != nil {
		return err
	}
	for k, v := range values {
		m[k] = v
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(kv.path), 0o755); err != nil {
		return err
	}
	tmp := kv.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, kv.path)
}

func (kv *FileKV) Close() error { return nil }
