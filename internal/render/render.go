// package render draws analysis results as styled terminal output
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/shared"
)

const barWidth = 40

// Spotify brand green, matching the charts this replaces.
var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954")).Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954")).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1DB954"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Result renders the full analysis report: playlist header, summary stats,
// popularity histogram, and top-artist table. Presentation only; the
// truncation of the ranking to topN happens here, not in aggregation.
func Result(result *models.AnalysisResult, topN int) string {
	var b strings.Builder

	b.WriteString(Header(result.Playlist, len(result.Tracks), len(result.Skipped)))
	b.WriteString("\n")
	b.WriteString(Summary(result.Stats))
	b.WriteString("\n")
	b.WriteString(Histogram(result.Buckets))
	b.WriteString("\n")
	b.WriteString(TopArtists(result.TopArtists(topN)))

	return b.String()
}

// Header renders playlist details.
func Header(meta models.PlaylistMeta, kept, skipped int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(meta.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Owner: %s\n", meta.Owner))
	b.WriteString(fmt.Sprintf("Tracks: %d declared, %d analyzed", meta.TrackCount, kept))
	if skipped > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" (%d unavailable)", skipped)))
	}
	b.WriteString("\n")
	if meta.Description != "" {
		b.WriteString(dimStyle.Render(meta.Description))
		b.WriteString("\n")
	}

	return b.String()
}

// Summary renders the popularity stat line.
func Summary(stats models.SummaryStats) string {
	return fmt.Sprintf("%s mean %.2f · median %.2f · min %d · max %d\n",
		headerStyle.Render("Popularity:"), stats.Mean, stats.Median, stats.Min, stats.Max)
}

// Histogram renders the popularity distribution as horizontal bars. Bars
// scale to the largest bucket; empty buckets still get a labeled row so the
// distribution reads as gap-free.
func Histogram(buckets []models.PopularityBucket) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Popularity Distribution"))
	b.WriteString("\n")

	most := 0
	for _, bucket := range buckets {
		if bucket.Count > most {
			most = bucket.Count
		}
	}

	for _, bucket := range buckets {
		label := fmt.Sprintf("[%3d-%3d)", bucket.Lo, bucket.Hi)
		if bucket.Hi == 100 {
			label = fmt.Sprintf("[%3d-%3d]", bucket.Lo, bucket.Hi)
		}

		width := 0
		if most > 0 {
			width = bucket.Count * barWidth / most
		}
		if bucket.Count > 0 && width == 0 {
			width = 1
		}

		b.WriteString(fmt.Sprintf("%s %s %d\n",
			dimStyle.Render(label),
			barStyle.Render(strings.Repeat("█", width)),
			bucket.Count))
	}

	return b.String()
}

// TopArtists renders the ranked artist table.
func TopArtists(artists []models.ArtistAggregate) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Top Artists"))
	b.WriteString("\n")

	if len(artists) == 0 {
		b.WriteString(dimStyle.Render("no credited artists"))
		b.WriteString("\n")
		return b.String()
	}

	for i, artist := range artists {
		b.WriteString(fmt.Sprintf("%2d. %s %s\n", i+1, artist.Name,
			dimStyle.Render(fmt.Sprintf("(%d)", artist.Count))))
	}

	return b.String()
}

// Tracks renders a compact track table for verbose output.
func Tracks(tracks []models.TrackRecord) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Tracks"))
	b.WriteString("\n")

	for _, track := range tracks {
		b.WriteString(fmt.Sprintf("%4d. %s - %s [%s]\n", track.Position,
			strings.Join(track.Artists, ", "), track.Name,
			shared.FormatDuration(track.DurationMS)))
	}

	return b.String()
}
