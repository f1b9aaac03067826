// Package tree holds the traversal and derived-field helpers for the catalog forest.
//
// Everything here is depth-generic: the catalog only uses two levels (category and
// subcategory) but nothing assumes that.
package tree

import (
	"strconv"
	"strings"

	"catalog-cli/internal/model"
)

// SubCategorySeparator joins child names into a parent's SubCategories text.
const SubCategorySeparator = " / "

// Visitor is called for every node in pre-order. parent is nil for roots.
// Returning false stops the walk.
type Visitor func(it *model.Item, parent *model.Item, level int) bool

// Walk visits nodes depth-first, pre-order. It reports whether the walk ran to completion
// (false when a visitor stopped it early).
func Walk(nodes []*model.Item, visit Visitor) bool {
	return walk(nodes, nil, 0, visit)
}

func walk(nodes []*model.Item, parent *model.Item, level int, visit Visitor) bool {
	for _, it := range nodes {
		if it == nil {
			continue
		}
		if !visit(it, parent, level) {
			return false
		}
		if len(it.Children) > 0 {
			if !walk(it.Children, it, level+1, visit) {
				return false
			}
		}
	}
	return true
}

// Find returns the first node with the given id, depth-first.
func Find(nodes []*model.Item, id int64) (*model.Item, bool) {
	it, _, ok := FindWithParent(nodes, id)
	return it, ok
}

// FindWithParent is Find plus the node's parent (nil for roots).
func FindWithParent(nodes []*model.Item, id int64) (*model.Item, *model.Item, bool) {
	var found, foundParent *model.Item
	Walk(nodes, func(it, parent *model.Item, _ int) bool {
		if it.ID == id {
			found = it
			foundParent = parent
			return false
		}
		return true
	})
	return found, foundParent, found != nil
}

// Flatten returns the forest as pre-order rows annotated with depth and parent id.
// It does not modify the forest and may be called any number of times.
func Flatten(nodes []*model.Item) []model.FlatItem {
	out := make([]model.FlatItem, 0, CountAll(nodes))
	Walk(nodes, func(it, parent *model.Item, level int) bool {
		row := model.FlatItem{Item: it, Level: level}
		if parent != nil {
			pid := parent.ID
			row.ParentID = &pid
		}
		out = append(out, row)
		return true
	})
	return out
}

// CountAll counts every node in the forest, all levels.
func CountAll(nodes []*model.Item) int {
	n := 0
	Walk(nodes, func(*model.Item, *model.Item, int) bool {
		n++
		return true
	})
	return n
}

// Renumber assigns DisplayNumber to every node from its position: "<prefix>.<i+1>", or
// just "<i+1>" when prefix is empty. Children use the parent's new number as prefix.
func Renumber(nodes []*model.Item, prefix string) {
	for i, it := range nodes {
		if it == nil {
			continue
		}
		pos := strconv.Itoa(i + 1)
		if prefix != "" {
			it.DisplayNumber = prefix + "." + pos
		} else {
			it.DisplayNumber = pos
		}
		if len(it.Children) > 0 {
			Renumber(it.Children, it.DisplayNumber)
		}
	}
}

// Reindex makes sibling Order values contiguous 1..N in slice order.
func Reindex(nodes []*model.Item) {
	for i, it := range nodes {
		if it != nil {
			it.Order = i + 1
		}
	}
}

// RefreshDerived recomputes SubCategories and ItemCount from the node's direct children.
func RefreshDerived(it *model.Item) {
	if it == nil {
		return
	}
	it.SubCategories = JoinNames(it.Children)
	it.ItemCount = len(it.Children)
}

// JoinNames joins the names of nodes in slice order.
func JoinNames(nodes []*model.Item) string {
	names := make([]string, 0, len(nodes))
	for _, it := range nodes {
		if it != nil {
			names = append(names, it.Name)
		}
	}
	return strings.Join(names, SubCategorySeparator)
}

// SetCollapsed sets Collapsed on every node of the forest.
func SetCollapsed(nodes []*model.Item, collapsed bool) {
	Walk(nodes, func(it *model.Item, _ *model.Item, _ int) bool {
		it.Collapsed = collapsed
		return true
	})
}

// Normalize replaces empty child slices with nil so leaves encode and compare the same way
// regardless of where they came from.
func Normalize(nodes []*model.Item) {
	Walk(nodes, func(it *model.Item, _ *model.Item, _ int) bool {
		if len(it.Children) == 0 {
			it.Children = nil
		}
		return true
	})
}

// Clone returns a deep copy of the forest. No node in the result aliases the input.
func Clone(nodes []*model.Item) []*model.Item {
	if nodes == nil {
		return nil
	}
	out := make([]*model.Item, len(nodes))
	for i, it := range nodes {
		out[i] = CloneItem(it)
	}
	return out
}

// CloneItem deep-copies one node and its subtree.
func CloneItem(it *model.Item) *model.Item {
	if it == nil {
		return nil
	}
	cp := *it
	cp.Children = Clone(it.Children)
	return &cp
}
