package catalog

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"vinylvault/internal/models"
)

// Apply runs the full browsing pipeline: filter the snapshot with the
// controls' predicates, then sort the survivors. The input slice is never
// mutated; Apply returns a fresh view.
func Apply(records []*models.Record, c Controls) []*models.Record {
	view := make([]*models.Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, c) {
			view = append(view, rec)
		}
	}

	sortView(view, c.Sort)
	return view
}

// Matches reports whether a record survives all of the controls' filter
// predicates. Predicates are conjunctive.
func Matches(rec *models.Record, c Controls) bool {
	if c.FavoritesOnly && !rec.IsFavorite() {
		return false
	}
	if c.SpecialOnly && !rec.IsSpecial() {
		return false
	}
	if c.Format != "" && rec.Format() != c.Format {
		return false
	}

	query := strings.ToLower(strings.TrimSpace(c.Query))
	if query == "" {
		return true
	}

	return strings.Contains(strings.ToLower(rec.Artist()), query) ||
		strings.Contains(strings.ToLower(rec.Album()), query) ||
		strings.Contains(yearString(rec), query) ||
		strings.Contains(strings.ToLower(rec.Notes()), query)
}

func yearString(rec *models.Record) string {
	if year := rec.Year(); year != nil {
		return strconv.Itoa(*year)
	}
	return ""
}

func sortView(view []*models.Record, key SortKey) {
	switch key {
	case SortArtistDesc:
		// Exact reverse of the ascending order, tie-breaks included.
		slices.SortStableFunc(view, byArtist)
		slices.Reverse(view)
	case SortYearAsc:
		slices.SortStableFunc(view, func(a, b *models.Record) int {
			return cmp.Compare(yearOrMax(a), yearOrMax(b))
		})
	case SortYearDesc:
		slices.SortStableFunc(view, func(a, b *models.Record) int {
			return cmp.Compare(yearOrMin(b), yearOrMin(a))
		})
	case SortRecent:
		slices.SortStableFunc(view, func(a, b *models.Record) int {
			return b.Touched().Compare(a.Touched())
		})
	default:
		slices.SortStableFunc(view, byArtist)
	}
}

func byArtist(a, b *models.Record) int {
	if c := strings.Compare(strings.ToLower(a.Artist()), strings.ToLower(b.Artist())); c != 0 {
		return c
	}
	return strings.Compare(strings.ToLower(a.Album()), strings.ToLower(b.Album()))
}

// Records without a year sort last regardless of direction.

func yearOrMax(rec *models.Record) int {
	if year := rec.Year(); year != nil {
		return *year
	}
	return math.MaxInt
}

func yearOrMin(rec *models.Record) int {
	if year := rec.Year(); year != nil {
		return *year
	}
	return math.MinInt
}
