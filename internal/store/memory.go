package store

import (
	"context"
	"sync"
)

// MemoryKV keeps values for the life of the process only.
type MemoryKV struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: map[string]string{}}
}

func (kv *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *MemoryKV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

func (kv *MemoryKV) SetMany(_ context.Context, values map[string]string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	for k, v := range values {
		kv.m[k] = v
	}
	return nil
}

func (kv *MemoryKV) Close() error { return nil }
