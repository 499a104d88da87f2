// Package csvsource streams raw telemetry observations out of a CSV source.
//
// A Reader maps the header row onto the required columns once at open, then
// yields one parsed Observation per Next call. Malformed data rows come back
// as a *types.RowError so the ingestion pipeline can count and skip them;
// a missing or incomplete header is fatal at open. The whole input is never
// buffered in memory.
package csvsource
