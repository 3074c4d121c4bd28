package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrBoundExceeded is returned when a pagination session issues more
// requests, or collects more items, than its Config allows.
var ErrBoundExceeded = errors.New("pagination exceeded bound")

// Config holds paginator configuration.
type Config struct {
	// Resource names the paginated collection in logs and metrics.
	Resource string

	// MaxPages caps the number of requests per session (0 = unlimited).
	MaxPages int

	// MaxItems caps the number of accumulated items (0 = unlimited).
	MaxItems int
}

// DefaultConfig returns the default paginator configuration.
func DefaultConfig() Config {
	return Config{
		Resource: "resources",
		MaxPages: 10000,
	}
}

// Page is one fetched page of a collection.
type Page[R any] struct {
	// Items are the raw records of this page, in server order.
	Items []R

	// Offset is the offset to request next.
	Offset int

	// Total is the collection size reported with this page.
	Total int
}

// Fetcher fetches the page starting at offset.
type Fetcher[R any] interface {
	FetchPage(ctx context.Context, offset int) (Page[R], error)
}

// FetcherFunc adapts a request builder closed over fixed request arguments
// to a Fetcher.
type FetcherFunc[R any] func(ctx context.Context, offset int) (Page[R], error)

// FetchPage implements Fetcher.
func (f FetcherFunc[R]) FetchPage(ctx context.Context, offset int) (Page[R], error) {
	return f(ctx, offset)
}

// Mapper transforms a raw record into the item returned to the caller.
type Mapper[R, T any] func(R) T

// Identity returns the record unchanged.
func Identity[R any](r R) R {
	return r
}

// All fetches pages until the number of accumulated items reaches the total
// reported by the last page, mapping every record exactly once.
//
// The first request uses offset 0; each following request uses the offset
// reported by the previous page. Items are returned in page-arrival order.
// Any fetch error aborts the session and is returned wrapped.
func All[R, T any](ctx context.Context, fetcher Fetcher[R], mapper Mapper[R, T], cfg Config) ([]T, error) {
	start := time.Now()
	resource := cfg.Resource
	if resource == "" {
		resource = "resources"
	}

	offset, total := 0, 1
	items := make([]T, 0)
	pages := 0

	for len(items) < total {
		if cfg.MaxPages > 0 && pages >= cfg.MaxPages {
			boundExceededTotal.WithLabelValues(resource).Inc()
			log.Warn().
				Str("resource", resource).
				Int("pages", pages).
				Int("items", len(items)).
				Int("total", total).
				Msg("Pagination stopped at page limit")
			return nil, fmt.Errorf("%w: %d pages fetched, %d/%d items", ErrBoundExceeded, pages, len(items), total)
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("paginate %s: %w", resource, err)
		}

		page, err := fetcher.FetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("fetch %s at offset %d: %w", resource, offset, err)
		}
		pages++
		pagesTotal.WithLabelValues(resource).Inc()

		for _, raw := range page.Items {
			items = append(items, mapper(raw))
		}
		itemsTotal.WithLabelValues(resource).Add(float64(len(page.Items)))
		offset, total = page.Offset, page.Total

		if len(page.Items) == 0 && len(items) < total {
			log.Warn().
				Str("resource", resource).
				Int("offset", offset).
				Int("items", len(items)).
				Int("total", total).
				Msg("Empty page before total reached")
		}

		if cfg.MaxItems > 0 && len(items) > cfg.MaxItems {
			boundExceededTotal.WithLabelValues(resource).Inc()
			return nil, fmt.Errorf("%w: %d items exceed limit %d", ErrBoundExceeded, len(items), cfg.MaxItems)
		}

		if pages%50 == 0 {
			log.Info().
				Str("resource", resource).
				Int("pages", pages).
				Int("items", len(items)).
				Int("total", total).
				Msg("Pagination progress")
		}
	}

	log.Debug().
		Str("resource", resource).
		Int("pages", pages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return items, nil
}
