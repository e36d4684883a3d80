package daemon

import (
	"strings"
	"sync/atomic"
)

// apiPrefix is the optional namespace some daemon builds mount their
// routes under.
const apiPrefix = "/api"

// endpointResolver decides whether logical paths are requested bare or
// under the /api namespace. The preference starts bare and flips when a
// 404 fallback probe succeeds on the other shape; it is shared by every
// call on one client instance, so updates must stay atomic. A racing
// write costs at most one redundant probe.
type endpointResolver struct {
	prefersNamespace atomic.Bool
}

// resolve maps a logical path to the literal path for the primary attempt.
func (r *endpointResolver) resolve(logical string) string {
	path := normalizePath(logical)
	if r.prefersNamespace.Load() {
		return apiPrefixed(path)
	}
	return path
}

// alternate returns the other shape for the 404 fallback probe.
func (r *endpointResolver) alternate(logical string) string {
	path := normalizePath(logical)
	if r.prefersNamespace.Load() {
		return path
	}
	return apiPrefixed(path)
}

// recordOutcome caches which shape worked. Only positive evidence moves
// the preference.
func (r *endpointResolver) recordOutcome(usedPrefixed, succeeded bool) {
	if succeeded {
		r.prefersNamespace.Store(usedPrefixed)
	}
}

// reset forgets the cached shape, e.g. after the base URL changes.
func (r *endpointResolver) reset() {
	r.prefersNamespace.Store(false)
}

// normalizePath guarantees a single leading separator; the empty path
// maps to the root.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// apiPrefixed prepends the namespace. Prefixing is idempotent and the
// root path maps to the namespace root.
func apiPrefixed(path string) string {
	if path == "/" {
		return apiPrefix
	}
	if path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/") {
		return path
	}
	return apiPrefix + path
}
