// Package auth provides optional API key authentication for the HTTP API.
//
// When enabled, every request must carry the configured key in a header
// (x-api-key by default). Keys are compared in constant time. The /api/v1/health
// endpoint is always exempt so load balancers can probe without credentials.
package auth
