// Package httputil provides the HTTP plumbing shared by the graphize server
// handlers.
//
// # Overview
//
//   - [RequestID]: tags every request with a UUID, echoed in X-Request-ID
//   - [Logger]: logs one line per request through charmbracelet/log
//   - [WriteJSON] and [WriteError]: JSON responses and coded error bodies
//   - [ReadBody]: reads a request body under a size limit
//
// # Errors
//
// [WriteError] maps coded errors from pkg/errors to HTTP statuses and writes
//
//	{"code": "INVALID_CONTENT", "message": "Not valid JSON/YAML content."}
//
// Errors without a code are answered with 500 and a generic message; their
// details only go to the log.
package httputil
