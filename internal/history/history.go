// Package history keeps a bounded, snapshot-based undo/redo log of the catalog forest.
//
// Every commit stores a deep copy of the whole forest. That is O(tree size) per edit,
// which is fine for a catalog of a few hundred nodes and is the first thing to revisit if
// the dataset grows.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-cli/internal/logging"
	"catalog-cli/internal/metrics"
	"catalog-cli/internal/model"
	"catalog-cli/internal/tree"
)

// DefaultMaxEntries bounds the log when no explicit limit is configured.
const DefaultMaxEntries = 20

// Storage persists the log and cursor. Implementations should be idempotent; the manager
// always writes the full state.
type Storage interface {
	Save(entries []model.HistoryState, index int) error
	Load() ([]model.HistoryState, int, error)
}

type Options struct {
	// MaxEntries caps the log length. Values < 1 use DefaultMaxEntries.
	MaxEntries int
	Storage    Storage
	Logger     logrus.FieldLogger
	Now        func() time.Time
}

// Manager is the undo/redo state machine over (entries, index).
// index is -1 while the log is empty.
type Manager struct {
	mu      sync.Mutex
	entries []model.HistoryState
	index   int
	max     int
	storage Storage
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewManager(opts Options) *Manager {
	limit := opts.MaxEntries
	if limit < 1 {
		limit = DefaultMaxEntries
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		index:   -1,
		max:     limit,
		storage: opts.Storage,
		log:     log.WithField("component", "history"),
		now:     now,
	}
}

// Load replaces the in-memory log with whatever the storage holds. Missing or unreadable
// storage leaves an empty log; it never fails.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.storage == nil {
		return
	}
	entries, index, err := m.storage.Load()
	if err != nil {
		m.log.WithError(err).Warn("history storage unavailable; starting with empty history")
		return
	}
	m.entries = entries
	m.index = clampIndex(index, len(entries))
	m.log.WithFields(logrus.Fields{"entries": len(m.entries), "index": m.index}).Debug("history loaded")
}

// Commit snapshots items as the new current entry. Entries after the cursor are dropped
// first, and the oldest entries are dropped once the log exceeds its bound.
func (m *Manager) Commit(items []*model.Item) model.HistoryState {
	snap := model.HistoryState{
		ID:         uuid.NewString(),
		ItemsState: tree.Clone(items),
		Timestamp:  m.now().UnixMilli(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index < len(m.entries)-1 {
		m.entries = m.entries[:m.index+1]
	}
	m.entries = append(m.entries, snap)
	if over := len(m.entries) - m.max; over > 0 {
		m.entries = append([]model.HistoryState(nil), m.entries[over:]...)
	}
	m.index = len(m.entries) - 1

	metrics.HistoryCommits.Inc()
	metrics.HistoryDepth.Set(float64(len(m.entries)))
	m.persistLocked()
	return snap
}

// Undo moves the cursor back one entry and returns a deep copy of that entry's forest.
// ok is false (and nothing changes) when there is nothing to undo.
func (m *Manager) Undo() (items []*model.Item, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.canUndoLocked() {
		return nil, false
	}
	m.index--
	metrics.HistoryNavigations.WithLabelValues("undo").Inc()
	m.persistLocked()
	return tree.Clone(m.entries[m.index].ItemsState), true
}

// Redo moves the cursor forward one entry and returns a deep copy of that entry's forest.
func (m *Manager) Redo() (items []*model.Item, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.canRedoLocked() {
		return nil, false
	}
	m.index++
	metrics.HistoryNavigations.WithLabelValues("redo").Inc()
	m.persistLocked()
	return tree.Clone(m.entries[m.index].ItemsState), true
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canUndoLocked()
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canRedoLocked()
}

func (m *Manager) canUndoLocked() bool {
	return m.index > 0
}

func (m *Manager) canRedoLocked() bool {
	return m.index < len(m.entries)-1
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *Manager) Empty() bool {
	return m.Len() == 0
}

// Current returns a deep copy of the entry at the cursor.
func (m *Manager) Current() (model.HistoryState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index < 0 || m.index >= len(m.entries) {
		return model.HistoryState{}, false
	}
	return cloneState(m.entries[m.index]), true
}

// Entries returns a deep copy of the whole log, oldest first.
func (m *Manager) Entries() []model.HistoryState {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.HistoryState, len(m.entries))
	for i, e := range m.entries {
		out[i] = cloneState(e)
	}
	return out
}

func (m *Manager) persistLocked() {
	if m.storage == nil {
		return
	}
	if err := m.storage.Save(m.entries, m.index); err != nil {
		m.log.WithError(err).Warn("history not persisted; continuing in memory")
	}
}

func cloneState(s model.HistoryState) model.HistoryState {
	s.ItemsState = tree.Clone(s.ItemsState)
	return s
}

// clampIndex maps a stored cursor onto the loaded log. An out-of-range cursor on a
// non-empty log points at the newest entry.
func clampIndex(index, n int) int {
	if n == 0 {
		return -1
	}
	if index < 0 || index >= n {
		return n - 1
	}
	return index
}
