// Package ingest turns raw observation rows into classified, persisted
// records. The pipeline streams a row source, scores each observation, and
// inserts only the high-stress ones — each with a freshly generated record
// id, so re-running the same source duplicates records by design (no
// deduplication key exists in the data model).
//
// Per-row parse failures are absorbed into the run summary; a store failure
// aborts the run with a StorageError, leaving already-committed rows in place.
package ingest
