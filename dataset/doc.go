// Package dataset implements the data store collaborator and the fixed
// mapping from resource paths to the category that gates them.
//
// Payloads are opaque JSON blobs keyed by category; the gateway only
// decides whether the caller may see one, never what is inside it.
package dataset
