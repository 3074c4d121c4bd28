package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached response.
type Key struct {
	// App is the app slug (e.g. "adalo", "twitter_v2")
	App string

	// Path is the request path relative to the host
	Path string

	// Query holds the request query parameters
	Query url.Values

	// Credential is the authorization value the response was fetched with.
	// Only a fingerprint of it ends up in the key.
	Credential string
}

// String generates a deterministic key.
// Format: components:app:path:q1=v1:q2=v2:auth=fingerprint
//
// Example:
//
//	components:adalo:v0/apps/abc/collections/t_1:offset=0:auth=9f86d081884c7d65
func (k Key) String() string {
	parts := []string{"components"}

	if k.App != "" {
		parts = append(parts, k.App)
	}

	if path := strings.Trim(k.Path, "/"); path != "" {
		parts = append(parts, path)
	}

	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			values := append([]string(nil), k.Query[key]...)
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", key, strings.Join(values, ",")))
		}
	}

	if k.Credential != "" {
		parts = append(parts, "auth="+fingerprint(k.Credential))
	}

	return strings.Join(parts, ":")
}

func fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
