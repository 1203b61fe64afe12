// Package quality routes media units to the standard or high-quality
// backend instance based on where the played file lives or which backend a
// webhook originated from.
package quality

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vmunix/holdarr/internal/monitor"
)

// Route is one backend instance plus the library it imports into.
type Route struct {
	BackendURL  string
	APIKey      string
	LibraryRoot string
}

func (r Route) configured() bool { return r.BackendURL != "" }

// Config pairs each media kind with its standard and optional high-quality
// route. High-quality routes may be left zero when no 4K instances exist.
type Config struct {
	Movie       Route
	MovieHigh   Route
	Episode     Route
	EpisodeHigh Route
}

// Router decides the quality tier for incoming units. The decision is made
// once at insertion and the tier never changes afterwards.
type Router struct {
	routes    map[monitor.BackendKey]Route
	highRoots []string
	highPorts map[int]struct{}
}

// NewRouter builds a router from the configured routes.
func NewRouter(cfg Config) *Router {
	r := &Router{
		routes:    make(map[monitor.BackendKey]Route),
		highPorts: make(map[int]struct{}),
	}
	add := func(kind monitor.Kind, tier monitor.Tier, route Route) {
		if !route.configured() {
			return
		}
		r.routes[monitor.BackendKey{Kind: kind, Tier: tier}] = route
		if tier == monitor.TierHigh {
			if route.LibraryRoot != "" {
				r.highRoots = append(r.highRoots, filepath.Clean(route.LibraryRoot))
			}
			if port := urlPort(route.BackendURL); port != 0 {
				r.highPorts[port] = struct{}{}
			}
		}
	}
	add(monitor.KindMovie, monitor.TierStandard, cfg.Movie)
	add(monitor.KindMovie, monitor.TierHigh, cfg.MovieHigh)
	add(monitor.KindEpisode, monitor.TierStandard, cfg.Episode)
	add(monitor.KindEpisode, monitor.TierHigh, cfg.EpisodeHigh)
	return r
}

// Route returns the backend route for a kind and tier. When the high tier is
// not configured it falls back to the standard route.
func (r *Router) Route(kind monitor.Kind, tier monitor.Tier) (Route, bool) {
	if route, ok := r.routes[monitor.BackendKey{Kind: kind, Tier: tier}]; ok {
		return route, true
	}
	if tier == monitor.TierHigh {
		route, ok := r.routes[monitor.BackendKey{Kind: kind, Tier: monitor.TierStandard}]
		return route, ok
	}
	return Route{}, false
}

// HasHigh reports whether any high-quality backend is configured.
func (r *Router) HasHigh() bool { return len(r.highPorts) > 0 || len(r.highRoots) > 0 }

// Tier classifies a played file. A unit is high quality when its path lies
// under a high-quality library root, or when the webhook that reported it
// arrived from a high-quality backend's port.
func (r *Router) Tier(path string, sourcePort int) monitor.Tier {
	if sourcePort != 0 {
		if _, ok := r.highPorts[sourcePort]; ok {
			return monitor.TierHigh
		}
	}
	if path != "" {
		clean := filepath.Clean(path)
		for _, root := range r.highRoots {
			if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
				return monitor.TierHigh
			}
		}
	}
	return monitor.TierStandard
}

// urlPort extracts the port of a backend URL, defaulting by scheme.
func urlPort(raw string) int {
	u, err := url.Parse(raw)
	if err != nil {
		return 0
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		return n
	}
	switch u.Scheme {
	case "http":
		return 80
	case "https":
		return 443
	}
	return 0
}
