package dataset

import "github.com/batdigest/membergate/entitlement"

// routes is the closed mapping from /api/data/<dataType> path segments to
// the category required to fetch the payload. Paths outside this table
// are unknown resources, which is a client error, not a server fault.
// FullAccess deliberately has no route: the wildcard grants access, it is
// not itself a dataset.
var routes = map[string]entitlement.Key{
	"swing-weights": entitlement.SwingWeightData,
	"bbcor":         entitlement.BBCORData,
	"usssa":         entitlement.USSSAData,
	"usa":           entitlement.USAData,
	"fastpitch":     entitlement.FastpitchData,
}

// RouteCategory resolves a data-type path segment to its gating category.
func RouteCategory(dataType string) (entitlement.Key, bool) {
	key, ok := routes[dataType]
	return key, ok
}

// Routes returns a copy of the route table for diagnostics and tests.
func Routes() map[string]entitlement.Key {
	out := make(map[string]entitlement.Key, len(routes))
	for path, key := range routes {
		out[path] = key
	}
	return out
}
