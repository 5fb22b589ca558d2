// Package models defines the analysis data model for the statify pipeline.
//
// The package contains two categories of types:
//
// 1. Fetch artifacts: snapshots of remote catalog state
//   - [PlaylistMeta] : Playlist header details, immutable once fetched
//   - [TrackRecord] : One normalized, analysis-ready playlist row
//
// 2. Derived aggregates: recomputed on every analysis run, never persisted
//   - [PopularityBucket] : One interval of the popularity histogram
//   - [ArtistAggregate] : Occurrence count for a single credited artist
//   - [SummaryStats] : Mean/median/min/max popularity
//   - [AnalysisResult] : The sole artifact handed to rendering and export
//
// AnalysisResult owns its slices; callers must not mutate them after the
// engine returns. Two runs over the same playlist produce structurally
// identical results.
package models
