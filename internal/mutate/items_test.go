package mutate

import (
	"errors"
	"math/rand"
	"reflect"
	"strconv"
	"testing"
	"time"

	"catalog-cli/internal/model"
	"catalog-cli/internal/tree"
)

func fixedIDs(start int64) *IDSource {
	return NewIDSource(func() time.Time { return time.UnixMilli(start) })
}

func rootsForest(names ...string) *tree.Forest {
	roots := make([]*model.Item, 0, len(names))
	for i, n := range names {
		roots = append(roots, &model.Item{ID: int64(i + 1), Name: n, Order: i + 1})
	}
	tree.Renumber(roots, "")
	return tree.NewForest(roots)
}

func ptr(id int64) *int64 { return &id }

func TestAddChild_OnLeaf(t *testing.T) {
	f := rootsForest("A")

	res, err := AddChild(f, fixedIDs(1000), 1, "B")
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	a := f.Roots[0]
	if len(a.Children) != 1 || a.Children[0] != res.Item {
		t.Fatalf("expected A to have exactly the new child; got %#v", a.Children)
	}
	b := res.Item
	if b.Name != "B" || b.Order != 1 || b.DisplayNumber != "1.1" {
		t.Fatalf("unexpected child: %+v", *b)
	}
	if b.ID != 1000 {
		t.Fatalf("expected id from clock, got %d", b.ID)
	}
	if a.SubCategories != "B" || a.ItemCount != 1 {
		t.Fatalf("expected derived fields refreshed; got subCategories=%q itemCount=%d", a.SubCategories, a.ItemCount)
	}
	if res.Parent != a {
		t.Fatalf("expected parent in result")
	}
}

func TestAddChild_AppendsAfterExisting(t *testing.T) {
	f := rootsForest("A", "B")
	ids := fixedIDs(1000)
	if _, err := AddChild(f, ids, 2, "x"); err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	res, err := AddChild(f, ids, 2, "y")
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if res.Item.Order != 2 || res.Item.DisplayNumber != "2.2" {
		t.Fatalf("unexpected child: %+v", *res.Item)
	}
	if got := f.Roots[1].SubCategories; got != "x / y" {
		t.Fatalf("subCategories: got %q", got)
	}
	if f.Roots[1].Children[0].ID == res.Item.ID {
		t.Fatalf("expected distinct ids within the same millisecond")
	}
}

func TestMove_ToFront(t *testing.T) {
	f := rootsForest("X", "Y", "Z")

	if _, err := Move(f, 3, 0, nil); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	assertNames(t, f.Roots, "Z", "X", "Y")
	for i, it := range f.Roots {
		if it.Order != i+1 {
			t.Fatalf("order[%d]: got %d", i, it.Order)
		}
		if it.DisplayNumber != strconv.Itoa(i+1) {
			t.Fatalf("displayNumber[%d]: got %q", i, it.DisplayNumber)
		}
	}
}

func TestMove_OutOfRangeClamps(t *testing.T) {
	f := rootsForest("X", "Y", "Z")
	if _, err := Move(f, 2, -5, nil); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	assertNames(t, f.Roots, "Y", "X", "Z")

	if _, err := Move(f, 2, 100, nil); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	assertNames(t, f.Roots, "X", "Z", "Y")
	if f.Roots[2].Order != 3 || f.Roots[2].DisplayNumber != "3" {
		t.Fatalf("unexpected tail: %+v", *f.Roots[2])
	}
}

func TestMove_WithinParentRefreshesSubCategories(t *testing.T) {
	f := rootsForest("A")
	ids := fixedIDs(1000)
	for _, n := range []string{"a1", "a2", "a3"} {
		if _, err := AddChild(f, ids, 1, n); err != nil {
			t.Fatalf("AddChild error: %v", err)
		}
	}
	a := f.Roots[0]
	last := a.Children[2].ID

	if _, err := Move(f, last, 0, ptr(1)); err != nil {
		t.Fatalf("Move error: %v", err)
	}
	assertNames(t, a.Children, "a3", "a1", "a2")
	if a.SubCategories != "a3 / a1 / a2" {
		t.Fatalf("subCategories: got %q", a.SubCategories)
	}
	if a.Children[0].DisplayNumber != "1.1" || a.Children[2].DisplayNumber != "1.3" {
		t.Fatalf("display numbers not refreshed: %q %q", a.Children[0].DisplayNumber, a.Children[2].DisplayNumber)
	}
}

func TestRemove_ReindexesAndRenumbers(t *testing.T) {
	f := rootsForest("X", "Y", "Z")
	if _, err := AddChild(f, fixedIDs(1000), 3, "z1"); err != nil {
		t.Fatalf("AddChild error: %v", err)
	}

	res, err := Remove(f, 1, nil)
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if res.Item.Name != "X" {
		t.Fatalf("expected removed X, got %q", res.Item.Name)
	}
	assertNames(t, f.Roots, "Y", "Z")
	if f.Roots[1].Order != 2 || f.Roots[1].DisplayNumber != "2" {
		t.Fatalf("unexpected Z: %+v", *f.Roots[1])
	}
	if got := f.Roots[1].Children[0].DisplayNumber; got != "2.1" {
		t.Fatalf("descendant display number: got %q", got)
	}
}

func TestRemove_LastChildLeavesLeaf(t *testing.T) {
	f := rootsForest("A")
	res, err := AddChild(f, fixedIDs(1000), 1, "only")
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if _, err := Remove(f, res.Item.ID, ptr(1)); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	a := f.Roots[0]
	if a.Children != nil || a.ItemCount != 0 || a.SubCategories != "" {
		t.Fatalf("expected plain leaf, got %+v", *a)
	}
}

func TestEditName_RefreshesParent(t *testing.T) {
	f := rootsForest("A")
	res, err := AddChild(f, fixedIDs(1000), 1, "old")
	if err != nil {
		t.Fatalf("AddChild error: %v", err)
	}
	if _, err := EditName(f, res.Item.ID, "new"); err != nil {
		t.Fatalf("EditName error: %v", err)
	}
	if f.Roots[0].SubCategories != "new" {
		t.Fatalf("subCategories: got %q", f.Roots[0].SubCategories)
	}
	if _, err := EditName(f, 1, "root"); err != nil {
		t.Fatalf("EditName root error: %v", err)
	}
	if f.Roots[0].Name != "root" {
		t.Fatalf("name: got %q", f.Roots[0].Name)
	}
}

func TestToggleCollapsed(t *testing.T) {
	f := rootsForest("A")
	if _, err := ToggleCollapsed(f, 1); err != nil {
		t.Fatalf("ToggleCollapsed error: %v", err)
	}
	if !f.Roots[0].Collapsed {
		t.Fatalf("expected collapsed")
	}
	if _, err := ToggleCollapsed(f, 1); err != nil {
		t.Fatalf("ToggleCollapsed error: %v", err)
	}
	if f.Roots[0].Collapsed {
		t.Fatalf("expected expanded")
	}
}

func TestNotFound_LeavesForestUnchanged(t *testing.T) {
	f := rootsForest("X", "Y")
	before := tree.Clone(f.Roots)
	ids := fixedIDs(1000)

	checks := []struct {
		name string
		kind string
		run  func() error
	}{
		{"add missing parent", "parent", func() error { _, err := AddChild(f, ids, 99, "n"); return err }},
		{"edit missing item", "item", func() error { _, err := EditName(f, 99, "n"); return err }},
		{"remove missing item", "item", func() error { _, err := Remove(f, 99, nil); return err }},
		{"remove missing parent", "parent", func() error { _, err := Remove(f, 1, ptr(99)); return err }},
		{"remove wrong parent", "item", func() error { _, err := Remove(f, 1, ptr(2)); return err }},
		{"move missing item", "item", func() error { _, err := Move(f, 99, 0, nil); return err }},
		{"move missing parent", "parent", func() error { _, err := Move(f, 1, 0, ptr(99)); return err }},
		{"toggle missing item", "item", func() error { _, err := ToggleCollapsed(f, 99); return err }},
	}
	for _, c := range checks {
		err := c.run()
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", c.name, err)
		}
		var nf NotFoundError
		if !errors.As(err, &nf) || nf.Kind != c.kind {
			t.Fatalf("%s: expected %s NotFoundError, got %#v", c.name, c.kind, err)
		}
		if !reflect.DeepEqual(before, f.Roots) {
			t.Fatalf("%s: forest changed", c.name)
		}
	}
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	f := rootsForest("A", "B", "C")
	for _, it := range f.Roots {
		tree.RefreshDerived(it)
	}
	ids := fixedIDs(1000)
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 500; step++ {
		rows := f.Flatten()
		if len(rows) == 0 {
			if _, err := Move(f, 1, 0, nil); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected not found on empty forest, got %v", err)
			}
			return
		}
		row := rows[rng.Intn(len(rows))]
		var err error
		switch rng.Intn(5) {
		case 0, 1:
			_, err = AddChild(f, ids, row.Item.ID, "n"+strconv.Itoa(step))
		case 2:
			_, err = Move(f, row.Item.ID, rng.Intn(6)-1, row.ParentID)
		case 3:
			_, err = EditName(f, row.Item.ID, "e"+strconv.Itoa(step))
		case 4:
			if rng.Intn(3) == 0 {
				_, err = Remove(f, row.Item.ID, row.ParentID)
			}
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		checkInvariants(t, f.Roots, "")
	}
}

func checkInvariants(t *testing.T, nodes []*model.Item, prefix string) {
	t.Helper()
	seen := map[int64]bool{}
	tree.Walk(nodes, func(it, _ *model.Item, _ int) bool {
		if seen[it.ID] {
			t.Fatalf("duplicate id %d", it.ID)
		}
		seen[it.ID] = true
		return true
	})
	checkLevel(t, nodes, prefix)
}

func checkLevel(t *testing.T, nodes []*model.Item, prefix string) {
	t.Helper()
	for i, it := range nodes {
		if it.Order != i+1 {
			t.Fatalf("%q: order %d at position %d", it.Name, it.Order, i)
		}
		want := strconv.Itoa(i + 1)
		if prefix != "" {
			want = prefix + "." + want
		}
		if it.DisplayNumber != want {
			t.Fatalf("%q: displayNumber %q, want %q", it.Name, it.DisplayNumber, want)
		}
		if it.ItemCount != len(it.Children) {
			t.Fatalf("%q: itemCount %d, children %d", it.Name, it.ItemCount, len(it.Children))
		}
		if got := tree.JoinNames(it.Children); it.SubCategories != got {
			t.Fatalf("%q: subCategories %q, want %q", it.Name, it.SubCategories, got)
		}
		checkLevel(t, it.Children, it.DisplayNumber)
	}
}

func assertNames(t *testing.T, nodes []*model.Item, want ...string) {
	t.Helper()
	got := make([]string, 0, len(nodes))
	for _, it := range nodes {
		got = append(got, it.Name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("names: got %v want %v", got, want)
	}
}

func TestIDSource_SkipsUsedIDs(t *testing.T) {
	f := rootsForest("A")
	f.Roots[0].ID = 1000
	ids := fixedIDs(1000)

	a := ids.Next(f)
	b := ids.Next(f)
	if a != 1001 || b != 1002 {
		t.Fatalf("got %d, %d", a, b)
	}
}
