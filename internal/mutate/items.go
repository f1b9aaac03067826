package mutate

import (
	"slices"
	"strconv"

	"catalog-cli/internal/model"
	"catalog-cli/internal/tree"
)

// Result describes the node a mutation touched. Parent is nil for root-level nodes.
type Result struct {
	Item   *model.Item
	Parent *model.Item
}

// AddChild appends a new leaf named name under parentID.
// Callers are responsible for committing history.
func AddChild(f *tree.Forest, ids *IDSource, parentID int64, name string) (Result, error) {
	parent, ok := f.Find(parentID)
	if !ok {
		return Result{}, parentNotFound(parentID)
	}

	order := len(parent.Children) + 1
	child := &model.Item{
		ID:    ids.Next(f),
		Name:  name,
		Order: order,
		// Placeholder; Renumber below replaces it.
		DisplayNumber: parent.DisplayNumber + "." + strconv.Itoa(order),
	}
	parent.Children = append(parent.Children, child)

	tree.RefreshDerived(parent)
	tree.Renumber(parent.Children, parent.DisplayNumber)
	return Result{Item: child, Parent: parent}, nil
}

// EditName renames an item in place and refreshes its parent's SubCategories.
func EditName(f *tree.Forest, itemID int64, name string) (Result, error) {
	it, parent, ok := tree.FindWithParent(f.Roots, itemID)
	if !ok {
		return Result{}, itemNotFound(itemID)
	}
	it.Name = name
	if parent != nil {
		parent.SubCategories = tree.JoinNames(parent.Children)
	}
	return Result{Item: it, Parent: parent}, nil
}

// Remove deletes itemID (and its whole subtree) from parentID's children, or from the
// root list when parentID is nil. Remaining siblings are reindexed and the forest is
// renumbered.
func Remove(f *tree.Forest, itemID int64, parentID *int64) (Result, error) {
	sibs, parent, ok := f.Siblings(parentID)
	if !ok {
		return Result{}, parentNotFound(*parentID)
	}
	idx := indexOf(sibs, itemID)
	if idx < 0 {
		return Result{}, itemNotFound(itemID)
	}

	removed := sibs[idx]
	sibs = slices.Delete(sibs, idx, idx+1)
	if len(sibs) == 0 {
		sibs = nil
	}
	tree.Reindex(sibs)

	if parent != nil {
		parent.Children = sibs
		tree.RefreshDerived(parent)
	} else {
		f.Roots = sibs
	}
	f.Renumber()
	return Result{Item: removed, Parent: parent}, nil
}

// Move relocates itemID within its sibling list so that it ends up at targetIndex.
//
// targetIndex is 0-based and applied after the item is taken out of the list.
// Negative values clamp to 0; values past the end append.
func Move(f *tree.Forest, itemID int64, targetIndex int, parentID *int64) (Result, error) {
	sibs, parent, ok := f.Siblings(parentID)
	if !ok {
		return Result{}, parentNotFound(*parentID)
	}
	idx := indexOf(sibs, itemID)
	if idx < 0 {
		return Result{}, itemNotFound(itemID)
	}

	moved := sibs[idx]
	sibs = slices.Delete(sibs, idx, idx+1)
	targetIndex = clampInsertIndex(targetIndex, len(sibs))
	sibs = slices.Insert(sibs, targetIndex, moved)
	tree.Reindex(sibs)

	if parent != nil {
		parent.Children = sibs
		parent.SubCategories = tree.JoinNames(sibs)
	} else {
		f.Roots = sibs
	}
	f.Renumber()
	return Result{Item: moved, Parent: parent}, nil
}

// ToggleCollapsed flips the presentation flag. It is never recorded in history.
func ToggleCollapsed(f *tree.Forest, itemID int64) (Result, error) {
	it, parent, ok := tree.FindWithParent(f.Roots, itemID)
	if !ok {
		return Result{}, itemNotFound(itemID)
	}
	it.Collapsed = !it.Collapsed
	return Result{Item: it, Parent: parent}, nil
}

func indexOf(items []*model.Item, id int64) int {
	return slices.IndexFunc(items, func(it *model.Item) bool {
		return it != nil && it.ID == id
	})
}

func clampInsertIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
