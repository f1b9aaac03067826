// Package catalog is the item store: the live forest, its pagination state and the
// undo/redo history, plus the gateway that loads the forest from a source.
//
// Create one Store per process and hand it to whatever needs it.
package catalog

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"catalog-cli/internal/history"
	"catalog-cli/internal/logging"
	"catalog-cli/internal/metrics"
	"catalog-cli/internal/model"
	"catalog-cli/internal/mutate"
	"catalog-cli/internal/source"
	"catalog-cli/internal/tree"
)

var (
	// ErrFetch wraps every failure of the source read.
	ErrFetch = errors.New("fetch items failed")

	// ErrSuperseded is returned by a fetch whose response arrived after a newer fetch
	// started. Its response is discarded.
	ErrSuperseded = errors.New("fetch superseded by a newer request")

	// ErrPageOutOfRange is returned by ChangePage for pages outside 1..TotalPages.
	ErrPageOutOfRange = errors.New("page out of range")
)

type Options struct {
	Source  source.Source
	History *history.Manager
	IDs     *mutate.IDSource

	// PageLimit is the page size requested from the source. Values < 1 use 10.
	PageLimit int

	Logger logrus.FieldLogger
}

type Store struct {
	mu         sync.Mutex
	forest     *tree.Forest
	pagination model.PaginationMeta
	loading    bool

	history *history.Manager
	src     source.Source
	ids     *mutate.IDSource
	log     logrus.FieldLogger

	// Fetch bookkeeping; guarded by mu.
	flight      singleflight.Group
	gen         uint64
	inflightKey string
	cancel      func()
}

func New(opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	hist := opts.History
	if hist == nil {
		hist = history.NewManager(history.Options{Logger: log})
	}
	ids := opts.IDs
	if ids == nil {
		ids = mutate.NewIDSource(nil)
	}
	src := opts.Source
	if src == nil {
		src = source.NewDefaultStatic()
	}
	pag := model.DefaultPagination()
	if opts.PageLimit > 0 {
		pag.ItemsPerPage = opts.PageLimit
	}
	return &Store{
		forest:     tree.NewForest(nil),
		pagination: pag,
		history:    hist,
		src:        src,
		ids:        ids,
		log:        log.WithField("component", "catalog"),
	}
}

// Resume replaces the live forest with the history entry at the cursor, if there is one.
// It does not touch the history itself.
func (s *Store) Resume() bool {
	snap, ok := s.history.Current()
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forest = tree.NewForest(snap.ItemsState)
	return true
}

// AddSubcategory appends a new child named name under parentID and returns a copy of it.
func (s *Store) AddSubcategory(parentID int64, name string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := mutate.AddChild(s.forest, s.ids, parentID, name)
	s.observe("add", err)
	if err != nil {
		return nil, err
	}
	s.commitLocked()
	return tree.CloneItem(res.Item), nil
}

// EditItem renames itemID.
func (s *Store) EditItem(itemID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := mutate.EditName(s.forest, itemID, name)
	s.observe("edit", err)
	if err != nil {
		return err
	}
	s.commitLocked()
	return nil
}

// RemoveItem deletes itemID and its subtree from parentID's children, or from the
// root list when parentID is nil.
func (s *Store) RemoveItem(itemID int64, parentID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := mutate.Remove(s.forest, itemID, parentID)
	s.observe("remove", err)
	if err != nil {
		return err
	}
	s.commitLocked()
	return nil
}

// MoveItem moves itemID to targetIndex among its siblings (root list when parentID is nil).
func (s *Store) MoveItem(itemID int64, targetIndex int, parentID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := mutate.Move(s.forest, itemID, targetIndex, parentID)
	s.observe("move", err)
	if err != nil {
		return err
	}
	s.commitLocked()
	return nil
}

// ToggleCollapse flips itemID's collapsed flag. It does not touch history.
func (s *Store) ToggleCollapse(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := mutate.ToggleCollapsed(s.forest, itemID)
	s.observe("toggle", err)
	return err
}

// Undo restores the previous history entry. It reports false when there is nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.forest = tree.NewForest(items)
	return true
}

// Redo restores the next history entry. It reports false when there is nothing to redo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.forest = tree.NewForest(items)
	return true
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }
func (s *Store) CanRedo() bool { return s.history.CanRedo() }

// History exposes the manager for read-only listings.
func (s *Store) History() *history.Manager { return s.history }

// Items returns a deep copy of the forest.
func (s *Store) Items() []*model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tree.Clone(s.forest.Roots)
}

// Flattened returns the forest as pre-order rows with level and parent id.
func (s *Store) Flattened() []model.FlatItem {
	return tree.Flatten(s.Items())
}

// FindItem returns a copy of the item with the given id.
func (s *Store) FindItem(id int64) (*model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.forest.Find(id)
	if !ok {
		return nil, false
	}
	return tree.CloneItem(it), true
}

func (s *Store) Pagination() model.PaginationMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *Store) TotalItems() int  { return s.Pagination().TotalItems }
func (s *Store) CurrentPage() int { return s.Pagination().CurrentPage }
func (s *Store) TotalPages() int  { return s.Pagination().TotalPages }

// MainItemsCount is the number of root items.
func (s *Store) MainItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Len()
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) commitLocked() {
	s.history.Commit(s.forest.Roots)
}

func (s *Store) observe(op string, err error) {
	metrics.Mutations.WithLabelValues(op, metrics.MutationResult(err)).Inc()
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": op}).WithError(err).Debug("mutation skipped")
	}
}
