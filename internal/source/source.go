// Package source reads the catalog from its external data source.
package source

import (
	"context"

	"catalog-cli/internal/model"
)

// Source is the paged read operation the catalog is loaded from.
// page and limit are 1-based positive integers.
type Source interface {
	Fetch(ctx context.Context, page, limit int) (model.PaginatedResponse, error)
}

// Func adapts a plain function to Source.
type Func func(ctx context.Context, page, limit int) (model.PaginatedResponse, error)

func (f Func) Fetch(ctx context.Context, page, limit int) (model.PaginatedResponse, error) {
	return f(ctx, page, limit)
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}
