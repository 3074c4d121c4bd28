// Package pagination drains offset-paginated REST endpoints.
//
// Listing endpoints wrapped by the components report, with every page, the
// offset for the next request and the total number of items in the
// collection. All keeps requesting pages until the accumulated item count
// reaches the most recently reported total.
//
// Example usage:
//
//	fetcher := pagination.FetcherFunc[adalo.Record](func(ctx context.Context, offset int) (pagination.Page[adalo.Record], error) {
//		return app.RecordsPage(ctx, collectionID, offset)
//	})
//	records, err := pagination.All(ctx, fetcher, pagination.Identity[adalo.Record], pagination.DefaultConfig())
//
// The paginator:
//   - Issues requests strictly one after another (no prefetch)
//   - Passes the offset reported by the previous page to the next request
//   - Re-reads the total from every page
//   - Fails with ErrBoundExceeded instead of looping forever on an
//     inconsistent total
//   - Returns the first fetch error unchanged (wrapped), discarding partial data
//
// Raw JSON bodies can be turned into pages with JSONPage, which locates the
// items, next offset and total by dotted path.
package pagination
