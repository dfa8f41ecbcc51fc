// package formatter renders records and dashboard summaries for terminal output (text, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"vinylvault/internal/catalog"
	"vinylvault/internal/models"
)

// Currency renders a cent amount as a dollar string with two decimals.
func Currency(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Year renders an optional release year, "-" when unknown.
func Year(year *int) string {
	if year == nil {
		return "-"
	}
	return strconv.Itoa(*year)
}

// Month renders a "2006-01" bucket key as a short human label ("Jan 2006").
func Month(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

// RenderRecord writes a one-line text rendering of a record.
func RenderRecord(w io.Writer, rec *models.Record) {
	marks := ""
	if rec.IsFavorite() {
		marks += " ♥"
	}
	if rec.IsSpecial() {
		marks += " ★"
	}

	fmt.Fprintf(w, "%s - %s (%s)%s\n", rec.Artist(), rec.Album(), Year(rec.Year()), marks)
}

// RenderSummary writes a plain-text rendering of a dashboard summary. Spend
// lines only appear when the summary carries them.
func RenderSummary(w io.Writer, s *catalog.Summary) {
	fmt.Fprintf(w, "Records: %d units across %d artists\n", s.TotalUnits, s.UniqueArtists)
	fmt.Fprintf(w, "Favorites: %d  Special: %d\n", s.Favorites, s.Specials)

	if s.OldestYear != 0 {
		fmt.Fprintf(w, "Years: %d-%d (weighted average %d)\n", s.OldestYear, s.NewestYear, s.WeightedAvgYear)
	}

	if len(s.TopArtists) > 0 {
		fmt.Fprintln(w, "\nTop artists:")
		for _, artist := range s.TopArtists {
			fmt.Fprintf(w, "  %3d  %s\n", artist.Count, artist.Name)
		}
	}

	if len(s.Formats) > 0 {
		fmt.Fprintln(w, "\nFormats:")
		for _, format := range s.Formats {
			fmt.Fprintf(w, "  %3d  %s\n", format.Count, format.Name)
		}
	}

	if len(s.Genres) > 0 {
		fmt.Fprintln(w, "\nGenres:")
		for _, genre := range s.Genres {
			fmt.Fprintf(w, "  %3d  %s\n", genre.Count, genre.Name)
		}
	}

	if len(s.Monthly) > 0 {
		fmt.Fprintln(w, "\nAdded per month:")
		for _, month := range s.Monthly {
			fmt.Fprintf(w, "  %s  %d\n", Month(month.Month), month.Count)
		}
	}

	if s.Spend != nil {
		fmt.Fprintf(w, "\nSpend: %s total, %s per unit\n", Currency(s.Spend.TotalCents), Currency(s.Spend.AverageCents))
	}
}

// ExportToCSV renders records as CSV with columns: Artist, Album, Year, Quantity, Format, Genre, Notes
func ExportToCSV(records []*models.Record) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Artist", "Album", "Year", "Quantity", "Format", "Genre", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range records {
		year := ""
		if rec.Year() != nil {
			year = strconv.Itoa(*rec.Year())
		}

		row := []string{
			rec.Artist(),
			rec.Album(),
			year,
			strconv.Itoa(rec.Quantity()),
			rec.Format(),
			rec.Genre(),
			rec.Notes(),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
