// Package ws streams the recent high-stress alert feed to WebSocket clients.
//
// The hub broadcasts the same payload GET /api/v1/alerts returns, on a fixed
// interval, plus an immediate snapshot on connect. Dashboards subscribe here
// instead of polling the HTTP endpoint.
package ws
