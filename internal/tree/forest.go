package tree

import "catalog-cli/internal/model"

// Forest is the root list of the catalog plus helpers scoped to it.
type Forest struct {
	Roots []*model.Item
}

func NewForest(roots []*model.Item) *Forest {
	return &Forest{Roots: roots}
}

func (f *Forest) Find(id int64) (*model.Item, bool) {
	if f == nil {
		return nil, false
	}
	return Find(f.Roots, id)
}

func (f *Forest) Flatten() []model.FlatItem {
	if f == nil {
		return []model.FlatItem{}
	}
	return Flatten(f.Roots)
}

// Siblings returns the list a node lives in: the root list when parentID is nil, or the
// children of parentID. ok is false when parentID does not exist.
func (f *Forest) Siblings(parentID *int64) (list []*model.Item, parent *model.Item, ok bool) {
	if f == nil {
		return nil, nil, false
	}
	if parentID == nil {
		return f.Roots, nil, true
	}
	p, found := Find(f.Roots, *parentID)
	if !found {
		return nil, nil, false
	}
	return p.Children, p, true
}

// Renumber recomputes display numbers for the whole forest.
func (f *Forest) Renumber() {
	if f == nil {
		return
	}
	Renumber(f.Roots, "")
}

// HasID reports whether any node in the forest uses id.
func (f *Forest) HasID(id int64) bool {
	_, ok := f.Find(id)
	return ok
}

func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Roots)
}
