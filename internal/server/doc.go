// Package server exposes the explorer over HTTP.
//
// Routes:
//
//	GET  /                  rendered page
//	GET  /api/v1/snapshot   current snapshot as JSON
//	POST /api/v1/params     change rover and/or sol, start a cycle
//	POST /api/v1/refresh    start a cycle with the current params
//	GET  /healthz           liveness check
//	GET  /metrics           Prometheus exposition
//
// Parameter changes accept either a JSON body or an HTML form post. Form posts
// are answered with a redirect to the page so it works without scripting.
package server
