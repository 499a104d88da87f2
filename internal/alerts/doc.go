// Package alerts serves and announces high-stress alerts.
//
// Service is the retrieval path: it owns request-shape validation (default
// limit, ordering) and passes through to the record store.
//
// Engine is the notification path: it evaluates threshold rules against each
// newly stored record, with a per-rule-and-location cooldown, and delivers
// Slack/Teams/generic-HTTP webhooks. Delivery failures are logged and never
// affect ingestion.
package alerts
