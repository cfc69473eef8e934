// Package httpapi exposes the authorization engine over HTTP for the
// members site.
//
// The surface is small and cookie-based: POST /api/login mints the
// session cookie, GET /api/check-permission and GET /api/data/{dataType}
// make per-request decisions, POST /api/logout destroys the session.
// Error bodies are single-field JSON objects with stable text, since the
// site's frontend matches on them.
package httpapi
