package catalog

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"vinylvault/internal/models"
)

const (
	topArtistLimit = 10
	topGenreLimit  = 12
	monthlySpan    = 12
)

// NameCount is a generic label/count pair used by the grouped aggregates.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// YearCount counts units per release year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// MonthCount counts units added in a calendar month ("2006-01").
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Spend is the cost breakdown of the collection. It only appears on
// summaries produced for an admin session.
type Spend struct {
	TotalCents   int `json:"total_cents"`
	AverageCents int `json:"average_cents"`
}

// Summary is the aggregated dashboard view of the whole collection.
//
// All counts are quantity-weighted (a record held in three copies counts
// three times) except Favorites and Specials, which count records.
type Summary struct {
	TotalUnits      int          `json:"total_units"`
	UniqueArtists   int          `json:"unique_artists"`
	Favorites       int          `json:"favorites"`
	Specials        int          `json:"specials"`
	TopArtists      []NameCount  `json:"top_artists"`
	Years           []YearCount  `json:"years"`
	Formats         []NameCount  `json:"formats"`
	Monthly         []MonthCount `json:"monthly"`
	Genres          []NameCount  `json:"genres,omitempty"`
	OldestYear      int          `json:"oldest_year,omitempty"`
	NewestYear      int          `json:"newest_year,omitempty"`
	WeightedAvgYear int          `json:"weighted_avg_year,omitempty"`
	Spend           *Spend       `json:"spend,omitempty"`
}

// Summarize aggregates a snapshot of the collection into a Summary. The
// monthly series always covers the twelve calendar months ending at now,
// zero-filled. Spend is computed only when the session carries admin rights.
func Summarize(records []*models.Record, now time.Time, session models.Session) *Summary {
	s := &Summary{}

	artists := map[string]int{}
	years := map[int]int{}
	formats := map[string]int{}
	genres := map[string]int{}
	monthly := map[string]int{}
	hasGenre := false

	var yearUnits, yearWeight int

	for _, rec := range records {
		qty := rec.Quantity()
		s.TotalUnits += qty

		artists[rec.Artist()] += qty

		if rec.IsFavorite() {
			s.Favorites++
		}
		if rec.IsSpecial() {
			s.Specials++
		}

		if year := rec.Year(); year != nil {
			years[*year] += qty
			yearUnits += qty
			yearWeight += *year * qty
		}

		format := strings.TrimSpace(rec.Format())
		if format == "" {
			format = "Unknown"
		}
		formats[format] += qty

		if genre := strings.TrimSpace(rec.Genre()); genre != "" {
			genres[genre] += qty
			hasGenre = true
		} else {
			genres["Unknown"] += qty
		}

		if created := rec.CreatedAt(); !created.IsZero() {
			monthly[created.Format("2006-01")] += qty
		}
	}

	s.UniqueArtists = len(artists)
	s.TopArtists = topCounts(artists, topArtistLimit)
	s.Formats = topCounts(formats, len(formats))

	for year, count := range years {
		s.Years = append(s.Years, YearCount{Year: year, Count: count})
	}
	slices.SortFunc(s.Years, func(a, b YearCount) int {
		return cmp.Compare(a.Year, b.Year)
	})

	if len(s.Years) > 0 {
		s.OldestYear = s.Years[0].Year
		s.NewestYear = s.Years[len(s.Years)-1].Year
		s.WeightedAvgYear = int(math.Round(float64(yearWeight) / float64(yearUnits)))
	}

	if hasGenre {
		s.Genres = topCounts(genres, topGenreLimit)
	}

	s.Monthly = trailingMonths(monthly, now)

	if session.Admin {
		s.Spend = summarizeSpend(records, s.TotalUnits)
	}

	return s
}

// topCounts sorts a count map by count descending (name ascending on ties)
// and keeps the first limit entries.
func topCounts(counts map[string]int, limit int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}

	slices.SortFunc(out, func(a, b NameCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// trailingMonths builds the chronological twelve-month series ending at the
// month of now, filling months without additions with zero.
func trailingMonths(counts map[string]int, now time.Time) []MonthCount {
	out := make([]MonthCount, 0, monthlySpan)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	for i := monthlySpan - 1; i >= 0; i-- {
		month := anchor.AddDate(0, -i, 0).Format("2006-01")
		out = append(out, MonthCount{Month: month, Count: counts[month]})
	}
	return out
}

func summarizeSpend(records []*models.Record, totalUnits int) *Spend {
	total := 0
	for _, rec := range records {
		if cost := rec.CostCents(); cost != nil {
			total += *cost * max(1, rec.Quantity())
		}
	}

	return &Spend{
		TotalCents:   total,
		AverageCents: int(math.Round(float64(total) / float64(max(1, totalUnits)))),
	}
}
