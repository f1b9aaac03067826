package model

// Item is one node of the catalog tree: a game at the root, categories below it.
//
// DisplayNumber, SubCategories and ItemCount are derived from the node's position and
// children; mutations recompute them and callers should not set them by hand.
type Item struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`

	DisplayNumber string `json:"displayNumber,omitempty" yaml:"displayNumber,omitempty"`
	SubCategories string `json:"subCategories,omitempty" yaml:"subCategories,omitempty"`
	ItemCount     int    `json:"itemCount,omitempty" yaml:"itemCount,omitempty"`

	Children []*Item `json:"children,omitempty" yaml:"children,omitempty"`

	// Collapsed is presentation state only.
	Collapsed bool `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
}

// HasChildren reports whether the item has at least one child.
func (it *Item) HasChildren() bool {
	return it != nil && len(it.Children) > 0
}

// FlatItem is one row of a pre-order traversal. ParentID is derived during the walk
// (nil for roots) and is never stored on Item.
type FlatItem struct {
	Item     *Item  `json:"item" yaml:"item"`
	Level    int    `json:"level" yaml:"level"`
	ParentID *int64 `json:"parentId" yaml:"parentId"`
}

type PaginationMeta struct {
	CurrentPage  int `json:"currentPage" yaml:"currentPage"`
	TotalPages   int `json:"totalPages" yaml:"totalPages"`
	TotalItems   int `json:"totalItems" yaml:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage" yaml:"itemsPerPage"`
}

// DefaultPagination is the paging state before the first fetch completes.
func DefaultPagination() PaginationMeta {
	return PaginationMeta{
		CurrentPage:  1,
		TotalPages:   1,
		TotalItems:   0,
		ItemsPerPage: 10,
	}
}

type PaginatedResponse struct {
	Data []*Item       `json:"data" yaml:"data"`
	Meta PaginationMeta `json:"meta" yaml:"meta"`
}

// HistoryState is one snapshot in the undo/redo log.
// Timestamp is unix milliseconds.
type HistoryState struct {
	ID         string  `json:"id,omitempty" yaml:"id,omitempty"`
	ItemsState []*Item `json:"itemsState" yaml:"itemsState"`
	Timestamp  int64   `json:"timestamp" yaml:"timestamp"`
}
