package catalog

import "vinylvault/internal/models"

// Selection tracks which record a detail view is showing. It survives
// re-filtering and re-sorting: as long as the selected record is still in the
// view, it stays selected regardless of where it moved.
type Selection struct {
	id string
}

// Select pins the selection to the given record. A nil record clears it.
func (s *Selection) Select(rec *models.Record) {
	if rec == nil {
		s.id = ""
		return
	}
	s.id = rec.ID()
}

// ID returns the id of the currently selected record, or "" when nothing is
// selected.
func (s *Selection) ID() string {
	return s.id
}

// Reselect resolves the selection against a freshly computed view. If the
// previously selected record is still present it wins; otherwise the
// selection falls to the first record of the view, or to nothing when the
// view is empty.
func (s *Selection) Reselect(view []*models.Record) *models.Record {
	if s.id != "" {
		for _, rec := range view {
			if rec.ID() == s.id {
				return rec
			}
		}
	}

	if len(view) > 0 {
		s.id = view[0].ID()
		return view[0]
	}

	s.id = ""
	return nil
}
