// Package trace records per-fact guard evaluation failures so
// character authors can debug why a guarded fact never applies.
//
// Records go to a SQLite file separate from the character store; the
// recorder caps retained records and drops the oldest past the cap.
package trace
