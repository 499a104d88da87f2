// Package store persists classified high-stress records in a relational
// database behind a small Interface, with SQLite and MySQL backends selected
// by configuration.
//
// Inserts are append-only single-row commits with a server-generated UUID;
// the store re-validates the score invariant so a record below the threshold
// can never land in the table. Queries return the most recent records ordered
// by descending timestamp with a descending score tie-break (callers may
// override the ordering for pagination-style retrieval).
package store
