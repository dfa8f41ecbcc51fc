package catalog

import "net/url"

// SortKey identifies one of the supported catalog orderings.
type SortKey string

const (
	SortArtistAsc  SortKey = "artist-asc"
	SortArtistDesc SortKey = "artist-desc"
	SortYearAsc    SortKey = "year-asc"
	SortYearDesc   SortKey = "year-desc"
	SortRecent     SortKey = "recent"
)

// ParseSortKey normalizes a raw sort value. The legacy values "artist" and
// "year" are accepted for backward compatibility with old shared links; any
// unrecognized value falls back to artist-asc.
func ParseSortKey(raw string) SortKey {
	switch raw {
	case "artist":
		return SortArtistAsc
	case "year":
		return SortYearAsc
	case string(SortArtistAsc), string(SortArtistDesc), string(SortYearAsc), string(SortYearDesc), string(SortRecent):
		return SortKey(raw)
	default:
		return SortArtistAsc
	}
}

// Controls are the user-supplied browsing controls.
//
// The zero value is not valid; use DefaultControls. All four filter
// predicates are conjunctive.
type Controls struct {
	Query         string
	FavoritesOnly bool
	SpecialOnly   bool
	Format        string
	Sort          SortKey
}

// DefaultControls returns the controls of a fresh catalog view.
func DefaultControls() Controls {
	return Controls{Sort: SortArtistAsc}
}

// ParseControls decodes controls from query parameters, typically a page
// address or an API request. Missing parameters keep their defaults.
func ParseControls(v url.Values) Controls {
	return Controls{
		Query:         v.Get("q"),
		FavoritesOnly: v.Get("favs") == "1",
		SpecialOnly:   v.Get("special") == "1",
		Format:        v.Get("format"),
		Sort:          ParseSortKey(v.Get("sort")),
	}
}

// Values encodes the controls as query parameters so that view state survives
// reload and sharing. Defaults are omitted, keeping addresses short.
func (c Controls) Values() url.Values {
	v := url.Values{}
	if c.Query != "" {
		v.Set("q", c.Query)
	}
	if c.Sort != SortArtistAsc && c.Sort != "" {
		v.Set("sort", string(c.Sort))
	}
	if c.Format != "" {
		v.Set("format", c.Format)
	}
	if c.FavoritesOnly {
		v.Set("favs", "1")
	}
	if c.SpecialOnly {
		v.Set("special", "1")
	}
	return v
}
