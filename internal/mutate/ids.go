package mutate

import (
	"sync"
	"time"

	"catalog-cli/internal/tree"
)

// IDSource hands out item ids for new nodes.
//
// Ids are millisecond timestamps, bumped past the last issued id and past any id already in
// the forest, so two adds within the same millisecond still get distinct ids.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns an id not used anywhere in f.
func (s *IDSource) Next(f *tree.Forest) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	for f.HasID(id) {
		id++
	}
	s.last = id
	return id
}
