package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"catalog-cli/internal/model"
	"catalog-cli/internal/store"
)

// Storage keys.
const (
	KeyEntries = "itemsHistory"
	KeyIndex   = "historyIndex"
)

// EncodeLog serializes the log as a JSON array of snapshots.
func EncodeLog(entries []model.HistoryState) (string, error) {
	if entries == nil {
		entries = []model.HistoryState{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return string(b), nil
}

// DecodeLog is the inverse of EncodeLog.
func DecodeLog(s string) ([]model.HistoryState, error) {
	var out []model.HistoryState
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}

// KVStorage stores the log and cursor as two keys of a store.KV, written together.
type KVStorage struct {
	KV store.KV
}

func NewKVStorage(kv store.KV) *KVStorage {
	return &KVStorage{KV: kv}
}

func (s *KVStorage) Save(entries []model.HistoryState, index int) error {
	if s == nil || s.KV == nil {
		return store.ErrUnavailable
	}
	raw, err := EncodeLog(entries)
	if err != nil {
		return err
	}
	return s.KV.SetMany(context.Background(), map[string]string{
		KeyEntries: raw,
		KeyIndex:   strconv.Itoa(index),
	})
}

// Load reads both keys. A missing log yields an empty one; a missing or malformed cursor
// yields -1 and is clamped by the manager.
func (s *KVStorage) Load() ([]model.HistoryState, int, error) {
	if s == nil || s.KV == nil {
		return nil, -1, store.ErrUnavailable
	}
	ctx := context.Background()

	var entries []model.HistoryState
	raw, ok, err := s.KV.Get(ctx, KeyEntries)
	if err != nil {
		return nil, -1, err
	}
	if ok && strings.TrimSpace(raw) != "" {
		entries, err = DecodeLog(raw)
		if err != nil {
			return nil, -1, err
		}
	}

	index := -1
	rawIdx, ok, err := s.KV.Get(ctx, KeyIndex)
	if err != nil {
		return nil, -1, err
	}
	if ok {
		if n, err := strconv.Atoi(strings.TrimSpace(rawIdx)); err == nil {
			index = n
		}
	}
	return entries, index, nil
}
