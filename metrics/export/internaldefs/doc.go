// Package internaldefs holds the shared counter catalog for the metrics
// exporters. Both the Prometheus and the OTel exporter render exactly
// this list, so adding a counter here surfaces it in every backend.
package internaldefs
