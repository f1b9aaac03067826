// Package store provides the durable key/value storage the history log is written to.
//
// Backends: sqlite (default), badger, file (a single JSON document) and memory.
// All of them hold small text values under a handful of keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnavailable is returned when no durable storage is configured or reachable.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendBadger Backend = "badger"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// KV is a minimal string key/value store.
type KV interface {
	// Get returns ok=false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all values in one transaction: either every key is updated or none is.
	SetMany(ctx context.Context, values map[string]string) error
	Close() error
}

// Store is a storage directory. Backends that persist to disk keep their files under Dir.
type Store struct {
	Dir    string
	Logger logrus.FieldLogger
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return ErrUnavailable
	}
	return os.MkdirAll(s.Dir, 0o755)
}

// Open returns a KV for the named backend.
func (s Store) Open(ctx context.Context, backend Backend) (KV, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(string(backend))))
	if b != BackendMemory {
		if err := s.Ensure(); err != nil {
			return nil, err
		}
	}
	switch b {
	case "", BackendSQLite:
		kv, err := OpenSQLite(ctx, filepath.Join(s.Dir, "catalog.sqlite"))
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendBadger:
		kv, err := OpenBadger(BadgerConfig{Path: filepath.Join(s.Dir, "badger"), SyncWrites: true, Logger: s.Logger})
		if err != nil {
			return nil, err
		}
		return kv, nil
	case BackendFile:
		return NewFileKV(filepath.Join(s.Dir, "storage.json")), nil
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// DefaultDir is where the CLI keeps its data: $CATALOG_DATA_DIR, else ~/.catalog.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("CATALOG_DATA_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".catalog"), nil
}
