// Package cache stores app API responses in Redis for conditional revalidation.
//
// Components always ask the remote API before using cached data. A cached
// entry only contributes validators (ETag, Last-Modified) to the next request
// and supplies the body when the API answers 304 Not Modified. Responses
// without validators are never stored.
//
// # Basic Usage
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		App:   "adalo",
//		Path:  "/v0/apps/abc/collections/t_123",
//		Query: url.Values{"offset": []string{"0"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// plain request
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Metrics
//
//   - components_cache_hits_total{app}
//   - components_cache_misses_total{app}
//   - components_cache_not_modified_total{app}
//   - components_cache_errors_total{operation}
package cache
