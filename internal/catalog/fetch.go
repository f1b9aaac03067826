package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"catalog-cli/internal/metrics"
	"catalog-cli/internal/model"
	"catalog-cli/internal/tree"
)

const tracerName = "catalog-cli/internal/catalog"

// Init loads persisted history and then fetches the current page.
func (s *Store) Init(ctx context.Context) error {
	s.history.Load()
	return s.FetchItems(ctx, s.CurrentPage())
}

// ChangePage fetches page when it lies within 1..TotalPages.
func (s *Store) ChangePage(ctx context.Context, page int) error {
	if total := s.TotalPages(); page < 1 || page > total {
		return fmt.Errorf("%w: %d (1..%d)", ErrPageOutOfRange, page, total)
	}
	return s.FetchItems(ctx, page)
}

// FetchItems replaces the forest with the given page from the source.
//
// Only the most recent request is applied. Starting a fetch for a different page cancels
// the one in flight; a request identical to the one in flight shares its result. On
// failure the forest and pagination are left as they were.
func (s *Store) FetchItems(ctx context.Context, page int) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	limit := s.pagination.ItemsPerPage
	key := fmt.Sprintf("%d/%d", page, limit)
	if s.cancel != nil && s.inflightKey != key {
		// A later request for the cancelled key must start a new source call
		// instead of joining the cancelled one.
		s.cancel()
		s.flight.Forget(s.inflightKey)
	}
	fctx, cancel := context.WithCancel(ctx)
	s.cancel, s.inflightKey = cancel, key
	s.loading = true
	s.mu.Unlock()
	defer cancel()

	fctx, span := otel.Tracer(tracerName).Start(fctx, "catalog.FetchItems", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("limit", limit),
	))
	defer span.End()

	log := s.log.WithFields(logrus.Fields{"page": page, "limit": limit})
	start := time.Now()
	v, err, shared := s.flight.Do(key, func() (any, error) {
		return s.src.Fetch(fctx, page, limit)
	})
	metrics.FetchDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Bool("shared", shared))

	s.mu.Lock()
	defer s.mu.Unlock()

	current := gen == s.gen
	if current {
		s.loading = false
		s.cancel = nil
		s.inflightKey = ""
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		if !current {
			metrics.Fetches.WithLabelValues("stale").Inc()
			return ErrSuperseded
		}
		metrics.Fetches.WithLabelValues("error").Inc()
		log.WithError(err).Error("failed to fetch items")
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if !current {
		metrics.Fetches.WithLabelValues("stale").Inc()
		log.Debug("discarding superseded fetch response")
		return ErrSuperseded
	}

	resp := v.(model.PaginatedResponse)
	items := tree.Clone(resp.Data)
	tree.Normalize(items)
	tree.SetCollapsed(items, true)

	s.forest = tree.NewForest(items)
	s.pagination = resp.Meta
	if s.history.Empty() {
		s.history.Commit(items)
	}

	metrics.Fetches.WithLabelValues("ok").Inc()
	log.WithField("roots", len(items)).Debug("items fetched")
	return nil
}
