package dataset

import (
	"testing"

	"github.com/batdigest/membergate/entitlement"
)

func TestRouteTableIsClosedAndComplete(t *testing.T) {
	want := map[string]entitlement.Key{
		"swing-weights": entitlement.SwingWeightData,
		"bbcor":         entitlement.BBCORData,
		"usssa":         entitlement.USSSAData,
		"usa":           entitlement.USAData,
		"fastpitch":     entitlement.FastpitchData,
	}

	got := Routes()
	if len(got) != len(want) {
		t.Fatalf("route table has %d entries, want %d", len(got), len(want))
	}
	for path, key := range want {
		resolved, ok := RouteCategory(path)
		if !ok {
			t.Fatalf("missing route for %q", path)
		}
		if resolved != key {
			t.Fatalf("route %q resolves to %q, want %q", path, resolved, key)
		}
	}
}

func TestUnmappedPathsAreUnknown(t *testing.T) {
	for _, path := range []string{"", "slowpitch", "full_access", "bbcor_data", "BBCOR"} {
		if _, ok := RouteCategory(path); ok {
			t.Fatalf("path %q must not resolve", path)
		}
	}
}

func TestRoutesReturnsACopy(t *testing.T) {
	Routes()["slowpitch"] = entitlement.USAData
	if _, ok := RouteCategory("slowpitch"); ok {
		t.Fatal("mutating the returned map must not affect the route table")
	}
}
