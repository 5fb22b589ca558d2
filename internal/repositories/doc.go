// Package repositories provides the persistence layer for analysis run
// history.
//
// [RunRepository] records a summary row per completed analysis and lists
// past runs for the history command. Runs are append-only; full analysis
// results are never persisted, only recomputed.
package repositories
