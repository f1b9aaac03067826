package history

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-cli/internal/model"
	"catalog-cli/internal/store"
)

func forest(names ...string) []*model.Item {
	out := make([]*model.Item, 0, len(names))
	for i, n := range names {
		out = append(out, &model.Item{ID: int64(i + 1), Name: n, Order: i + 1, DisplayNumber: fmt.Sprint(i + 1)})
	}
	return out
}

func newManager(t *testing.T, s Storage) *Manager {
	t.Helper()
	return NewManager(Options{
		Storage: s,
		Now:     func() time.Time { return time.UnixMilli(1_700_000_000_000) },
	})
}

type failingStorage struct {
	saves int
}

var errDisk = errors.New("disk on fire")

func (f *failingStorage) Save([]model.HistoryState, int) error {
	f.saves++
	return errDisk
}

func (f *failingStorage) Load() ([]model.HistoryState, int, error) {
	return nil, -1, errDisk
}

func TestNewManager_Empty(t *testing.T) {
	m := newManager(t, nil)
	assert.True(t, m.Empty())
	assert.Equal(t, -1, m.Index())
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	_, ok := m.Current()
	assert.False(t, ok)
}

func TestUndo_EmptyIsNoop(t *testing.T) {
	m := newManager(t, nil)
	items, ok := m.Undo()
	assert.False(t, ok)
	assert.Nil(t, items)
	assert.Equal(t, -1, m.Index())

	_, ok = m.Redo()
	assert.False(t, ok)
}

func TestUndoRedo_InverseLaw(t *testing.T) {
	m := newManager(t, nil)
	s1 := forest("A")
	s2 := forest("A", "B")
	m.Commit(s1)
	m.Commit(s2)

	got, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, s1, got)

	got, ok = m.Redo()
	require.True(t, ok)
	assert.Equal(t, s2, got)
	assert.Equal(t, 1, m.Index())
}

func TestCommit_SnapshotsAreIndependent(t *testing.T) {
	m := newManager(t, nil)
	items := forest("A")
	snap := m.Commit(items)

	items[0].Name = "mutated"
	assert.Equal(t, "A", snap.ItemsState[0].Name)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "A", cur.ItemsState[0].Name)
	assert.NotEmpty(t, cur.ID)
	assert.Equal(t, int64(1_700_000_000_000), cur.Timestamp)

	m.Commit(forest("A", "B"))
	undone, ok := m.Undo()
	require.True(t, ok)
	undone[0].Name = "mutated again"

	cur, _ = m.Current()
	assert.Equal(t, "A", cur.ItemsState[0].Name)
}

func TestCommit_PrunesRedoBranch(t *testing.T) {
	m := newManager(t, nil)
	m.Commit(forest("A"))
	m.Commit(forest("A", "B"))
	m.Commit(forest("A", "B", "C"))

	_, ok := m.Undo()
	require.True(t, ok)
	_, ok = m.Undo()
	require.True(t, ok)
	assert.True(t, m.CanRedo())

	m.Commit(forest("X"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m.Index())
	assert.False(t, m.CanRedo())

	entries := m.Entries()
	assert.Equal(t, "A", entries[0].ItemsState[0].Name)
	assert.Equal(t, "X", entries[1].ItemsState[0].Name)
}

func TestCommit_BoundKeepsMostRecent(t *testing.T) {
	m := newManager(t, nil)
	for i := 0; i < DefaultMaxEntries+5; i++ {
		m.Commit(forest(fmt.Sprintf("v%d", i)))
	}
	require.Equal(t, DefaultMaxEntries, m.Len())
	assert.Equal(t, DefaultMaxEntries-1, m.Index())

	entries := m.Entries()
	assert.Equal(t, "v5", entries[0].ItemsState[0].Name)
	assert.Equal(t, fmt.Sprintf("v%d", DefaultMaxEntries+4), entries[len(entries)-1].ItemsState[0].Name)
}

func TestCommit_CustomBound(t *testing.T) {
	m := NewManager(Options{MaxEntries: 3})
	for i := 0; i < 10; i++ {
		m.Commit(forest(fmt.Sprint(i)))
	}
	assert.Equal(t, 3, m.Len())
}

func TestCanUndo_FirstEntryIsBaseline(t *testing.T) {
	m := newManager(t, nil)
	m.Commit(forest("A"))
	assert.False(t, m.CanUndo())
	_, ok := m.Undo()
	assert.False(t, ok)
}

func TestPersistence_RoundTrip(t *testing.T) {
	kv := store.NewMemoryKV()
	m := newManager(t, NewKVStorage(kv))
	m.Commit(forest("A"))
	m.Commit(forest("A", "B"))
	m.Commit(forest("A", "B", "C"))
	_, ok := m.Undo()
	require.True(t, ok)

	restored := newManager(t, NewKVStorage(kv))
	restored.Load()
	assert.Equal(t, m.Entries(), restored.Entries())
	assert.Equal(t, 1, restored.Index())
	assert.True(t, restored.CanRedo())
}

func TestLoad_StorageFailureFallsBackToMemory(t *testing.T) {
	fs := &failingStorage{}
	m := newManager(t, fs)
	m.Load()
	assert.True(t, m.Empty())

	m.Commit(forest("A"))
	m.Commit(forest("A", "B"))
	got, ok := m.Undo()
	require.True(t, ok)
	assert.Equal(t, forest("A"), got)
	assert.Equal(t, 3, fs.saves)
}

func TestLoad_UnavailableKV(t *testing.T) {
	m := newManager(t, NewKVStorage(nil))
	m.Load()
	assert.True(t, m.Empty())
	m.Commit(forest("A"))
	assert.Equal(t, 1, m.Len())
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		index, n, want int
	}{
		{index: -1, n: 0, want: -1},
		{index: 3, n: 0, want: -1},
		{index: -1, n: 4, want: 3},
		{index: 9, n: 4, want: 3},
		{index: 2, n: 4, want: 2},
		{index: 0, n: 4, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clampIndex(tt.index, tt.n), "clampIndex(%d, %d)", tt.index, tt.n)
	}
}
