package source

import (
	"context"

	"catalog-cli/internal/model"
	"catalog-cli/internal/tree"
)

// Static serves a fixed forest. Every page returns the whole forest; the metadata counts
// every node at every level, the same way GET /api/items reports it.
type Static struct {
	roots []*model.Item
}

// NewStatic serves roots. Display numbers, orders and derived fields are recomputed so the
// data is internally consistent.
func NewStatic(roots []*model.Item) *Static {
	roots = tree.Clone(roots)
	tree.Normalize(roots)
	tree.Reindex(roots)
	tree.Walk(roots, func(it *model.Item, _ *model.Item, _ int) bool {
		tree.Reindex(it.Children)
		if it.HasChildren() {
			tree.RefreshDerived(it)
		}
		return true
	})
	tree.Renumber(roots, "")
	return &Static{roots: roots}
}

// NewDefaultStatic serves the built-in game catalog.
func NewDefaultStatic() *Static {
	return NewStatic(DefaultCatalog())
}

func (s *Static) Fetch(ctx context.Context, page, limit int) (model.PaginatedResponse, error) {
	if err := ctx.Err(); err != nil {
		return model.PaginatedResponse{}, err
	}
	page, limit = normalizePaging(page, limit)
	total := tree.CountAll(s.roots)
	return model.PaginatedResponse{
		Data: tree.Clone(s.roots),
		Meta: model.PaginationMeta{
			CurrentPage:  page,
			TotalPages:   (total + limit - 1) / limit,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

// DefaultCatalog is the built-in dataset: four games and their item categories.
func DefaultCatalog() []*model.Item {
	return []*model.Item{
		game(1, "DOTA2", leaf(11, "Head"), leaf(12, "Weapon"), leaf(13, "Back"), leaf(14, "Shoulders"),
			leaf(15, "Arms"), leaf(16, "Bracers"), leaf(17, "Collection"), leaf(18, "Event"), leaf(19, "Treasure")),
		game(3, "Valorant", leaf(31, "Skins"), leaf(32, "Weapons"), leaf(33, "Agents")),
		game(4, "RUST", leaf(41, "Weapons"), leaf(42, "Clothing"), leaf(43, "Tools"), leaf(44, "Building")),
		game(2, "CS2", leaf(21, "Gloves"), leaf(22, "Heavy"), leaf(23, "Knives"), leaf(24, "Pistols"),
			leaf(25, "Rifles"), leaf(26, "SMGs")),
	}
}

func game(id int64, name string, children ...*model.Item) *model.Item {
	return &model.Item{ID: id, Name: name, Children: children}
}

func leaf(id int64, name string) *model.Item {
	return &model.Item{ID: id, Name: name}
}
