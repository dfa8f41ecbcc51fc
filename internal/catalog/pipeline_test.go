package catalog

import (
	"slices"
	"testing"
	"time"

	"vinylvault/internal/models"
)

func testRecord(seq int, artist, album string) *models.Record {
	rec := models.NewRecord(seq, artist, album)
	rec.SetID(album)
	return rec
}

func viewIDs(view []*models.Record) []string {
	ids := make([]string, 0, len(view))
	for _, rec := range view {
		ids = append(ids, rec.ID())
	}
	return ids
}

func TestMatches(t *testing.T) {
	rec := testRecord(1, "Miles Davis", "Kind of Blue")
	year := 1959
	rec.SetYear(&year)
	rec.SetNotes("first pressing, gatefold")
	rec.SetFormat("LP")
	rec.SetFavorite(true)

	t.Run("QueryMatchesAcrossFields", func(t *testing.T) {
		for _, query := range []string{"miles", "KIND of", "1959", "gatefold", "  blue  "} {
			c := DefaultControls()
			c.Query = query
			if !Matches(rec, c) {
				t.Errorf("expected query %q to match", query)
			}
		}
	})

	t.Run("QueryMiss", func(t *testing.T) {
		c := DefaultControls()
		c.Query = "coltrane"
		if Matches(rec, c) {
			t.Error("expected query miss")
		}
	})

	t.Run("FiltersAreConjunctive", func(t *testing.T) {
		c := DefaultControls()
		c.Query = "miles"
		c.SpecialOnly = true
		if Matches(rec, c) {
			t.Error("matching query should not override the special gate")
		}
	})

	t.Run("FormatIsExact", func(t *testing.T) {
		c := DefaultControls()
		c.Format = "L"
		if Matches(rec, c) {
			t.Error("format filter should not be a substring match")
		}

		c.Format = "LP"
		if !Matches(rec, c) {
			t.Error("expected exact format match")
		}
	})

	t.Run("FavoritesGate", func(t *testing.T) {
		c := DefaultControls()
		c.FavoritesOnly = true
		if !Matches(rec, c) {
			t.Error("favorite record should pass the favorites gate")
		}

		other := testRecord(2, "Miles Davis", "On the Corner")
		if Matches(other, c) {
			t.Error("non-favorite should not pass the favorites gate")
		}
	})
}

func TestApplySorting(t *testing.T) {
	year := func(y int) *int { return &y }

	abbey := testRecord(1, "The Beatles", "Abbey Road")
	abbey.SetYear(year(1969))
	revolver := testRecord(2, "The Beatles", "Revolver")
	revolver.SetYear(year(1966))
	blue := testRecord(3, "Miles Davis", "Kind of Blue")
	blue.SetYear(year(1959))
	unknown := testRecord(4, "ZZ Top", "Tres Hombres")

	records := []*models.Record{abbey, revolver, blue, unknown}

	t.Run("ArtistAscTieBreaksOnAlbum", func(t *testing.T) {
		c := DefaultControls()
		view := Apply(records, c)

		want := []string{"Kind of Blue", "Abbey Road", "Revolver", "Tres Hombres"}
		if got := viewIDs(view); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("ArtistDescIsExactReverse", func(t *testing.T) {
		asc := Apply(records, Controls{Sort: SortArtistAsc})

		c := DefaultControls()
		c.Sort = SortArtistDesc
		desc := Apply(records, c)

		slices.Reverse(asc)
		if !slices.Equal(viewIDs(desc), viewIDs(asc)) {
			t.Errorf("descending order should be the exact reverse of ascending, got %v", viewIDs(desc))
		}
	})

	t.Run("YearAscPutsMissingLast", func(t *testing.T) {
		c := DefaultControls()
		c.Sort = SortYearAsc
		view := Apply(records, c)

		want := []string{"Kind of Blue", "Revolver", "Abbey Road", "Tres Hombres"}
		if got := viewIDs(view); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("YearDescPutsMissingLast", func(t *testing.T) {
		c := DefaultControls()
		c.Sort = SortYearDesc
		view := Apply(records, c)

		want := []string{"Abbey Road", "Revolver", "Kind of Blue", "Tres Hombres"}
		if got := viewIDs(view); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("RecentUsesLatestTouch", func(t *testing.T) {
		now := time.Now()

		old := testRecord(1, "A", "old")
		old.SetCreatedAt(now.Add(-48 * time.Hour))
		old.SetUpdatedAt(now.Add(-48 * time.Hour))

		edited := testRecord(2, "B", "edited")
		edited.SetCreatedAt(now.Add(-72 * time.Hour))
		edited.SetUpdatedAt(now)

		fresh := testRecord(3, "C", "fresh")
		fresh.SetCreatedAt(now.Add(-1 * time.Hour))
		fresh.SetUpdatedAt(now.Add(-1 * time.Hour))

		zero := testRecord(4, "D", "zero")
		zero.SetCreatedAt(time.Time{})
		zero.SetUpdatedAt(time.Time{})

		c := DefaultControls()
		c.Sort = SortRecent
		view := Apply([]*models.Record{old, edited, fresh, zero}, c)

		want := []string{"edited", "fresh", "old", "zero"}
		if got := viewIDs(view); !slices.Equal(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("ApplyIsIdempotent", func(t *testing.T) {
		c := DefaultControls()
		c.Query = "beatles"
		c.Sort = SortYearDesc

		once := Apply(records, c)
		twice := Apply(once, c)

		if len(once) == 0 {
			t.Fatal("expected the query to match records")
		}
		if !slices.Equal(viewIDs(twice), viewIDs(once)) {
			t.Errorf("re-applying the same controls changed the view: %v vs %v", viewIDs(twice), viewIDs(once))
		}
	})

	t.Run("InputIsNotMutated", func(t *testing.T) {
		before := viewIDs(records)

		c := DefaultControls()
		c.Sort = SortYearDesc
		Apply(records, c)

		if !slices.Equal(viewIDs(records), before) {
			t.Error("Apply mutated its input slice")
		}
	})
}

func TestSelection(t *testing.T) {
	a := testRecord(1, "A", "a")
	b := testRecord(2, "B", "b")
	c := testRecord(3, "C", "c")

	t.Run("SurvivesReordering", func(t *testing.T) {
		var sel Selection
		sel.Select(b)

		got := sel.Reselect([]*models.Record{c, b, a})
		if got != b {
			t.Errorf("expected selection to stick to b, got %v", got)
		}
	})

	t.Run("FallsToFirstWhenFilteredOut", func(t *testing.T) {
		var sel Selection
		sel.Select(b)

		got := sel.Reselect([]*models.Record{c, a})
		if got != c {
			t.Errorf("expected fallback to first visible record, got %v", got)
		}
		if sel.ID() != c.ID() {
			t.Errorf("expected selection id to move to %q, got %q", c.ID(), sel.ID())
		}
	})

	t.Run("ClearsOnEmptyView", func(t *testing.T) {
		var sel Selection
		sel.Select(a)

		if got := sel.Reselect(nil); got != nil {
			t.Errorf("expected nil selection on empty view, got %v", got)
		}
		if sel.ID() != "" {
			t.Errorf("expected cleared selection id, got %q", sel.ID())
		}
	})
}
