// Package api implements the HTTP JSON API for the alert server.
//
// New(...) returns an http.Handler that serves:
//
//	POST /api/v1/ingest   — scan a CSV source, store high-stress records
//	GET  /api/v1/alerts   — most recent high-stress records (?limit=&offset=&order_by=&direction=)
//	GET  /api/v1/health   — store reachability and stored-record count
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for unsupported methods
//   - Return 400 with an {error} body for validation failures and 502 when
//     the record store is unavailable
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
