package analyzer

import (
	"sort"

	"github.com/desertthunder/statify/internal/models"
)

// maxScore is the top of the popularity scale; the final histogram bucket
// is closed at this value.
const maxScore = 100

// defaultBucketWidth partitions [0,100] into ten buckets.
const defaultBucketWidth = 10

// Histogram computes the popularity distribution over fixed equal-width
// half-open buckets partitioning [0,100]. Every bucket is emitted, in
// ascending score order, even when its count is zero. A width outside
// (0,100] falls back to the default of 10.
func Histogram(tracks []models.TrackRecord, width int) []models.PopularityBucket {
	if width <= 0 || width > maxScore {
		width = defaultBucketWidth
	}

	var buckets []models.PopularityBucket
	for lo := 0; lo < maxScore; lo += width {
		hi := lo + width
		if hi > maxScore {
			hi = maxScore
		}
		buckets = append(buckets, models.PopularityBucket{Lo: lo, Hi: hi})
	}

	for _, track := range tracks {
		idx := track.Popularity / width
		if idx >= len(buckets) {
			// A score of exactly 100 lands in the closed final bucket.
			idx = len(buckets) - 1
		}
		buckets[idx].Count++
	}

	return buckets
}

// RankArtists counts one occurrence per track per distinct credited artist
// name and returns the full ranking sorted by descending count, ties broken
// by ascending name. The same input always yields the same ranking
// regardless of encounter order.
func RankArtists(tracks []models.TrackRecord) []models.ArtistAggregate {
	counts := make(map[string]int)

	for _, track := range tracks {
		seen := make(map[string]struct{}, len(track.Artists))
		for _, name := range track.Artists {
			// Duplicate credits within one track count once.
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			counts[name]++
		}
	}

	ranking := make([]models.ArtistAggregate, 0, len(counts))
	for name, count := range counts {
		ranking = append(ranking, models.ArtistAggregate{Name: name, Count: count})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Name < ranking[j].Name
	})

	return ranking
}

// Stats computes summary popularity statistics. An empty input yields the
// zero value.
func Stats(tracks []models.TrackRecord) models.SummaryStats {
	if len(tracks) == 0 {
		return models.SummaryStats{}
	}

	scores := make([]int, len(tracks))
	sum := 0
	min, max := tracks[0].Popularity, tracks[0].Popularity
	for i, track := range tracks {
		scores[i] = track.Popularity
		sum += track.Popularity
		if track.Popularity < min {
			min = track.Popularity
		}
		if track.Popularity > max {
			max = track.Popularity
		}
	}

	sort.Ints(scores)
	var median float64
	mid := len(scores) / 2
	if len(scores)%2 == 0 {
		median = float64(scores[mid-1]+scores[mid]) / 2
	} else {
		median = float64(scores[mid])
	}

	return models.SummaryStats{
		Mean:   float64(sum) / float64(len(tracks)),
		Median: median,
		Min:    min,
		Max:    max,
	}
}
