package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vinylvault/internal/catalog"
	"vinylvault/internal/models"
	"vinylvault/internal/shared"
)

// recordJSON is the wire form of a record. CostCents only appears on
// responses to admin sessions.
type recordJSON struct {
	ID         string    `json:"id"`
	Artist     string    `json:"artist"`
	Album      string    `json:"album"`
	Year       *int      `json:"year"`
	Quantity   int       `json:"quantity"`
	Format     string    `json:"format,omitempty"`
	Genre      string    `json:"genre,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	IsSpecial  bool      `json:"is_special"`
	IsFavorite bool      `json:"is_favorite"`
	SpotifyURL string    `json:"spotify_url,omitempty"`
	CoverURL   string    `json:"cover_url,omitempty"`
	CostCents  *int      `json:"cost_cents,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toRecordJSON(rec *models.Record, admin bool) recordJSON {
	out := recordJSON{
		ID:         rec.ID(),
		Artist:     rec.Artist(),
		Album:      rec.Album(),
		Year:       rec.Year(),
		Quantity:   rec.Quantity(),
		Format:     rec.Format(),
		Genre:      rec.Genre(),
		Notes:      rec.Notes(),
		IsSpecial:  rec.IsSpecial(),
		IsFavorite: rec.IsFavorite(),
		SpotifyURL: rec.SpotifyURL(),
		CoverURL:   rec.CoverURL(),
		CreatedAt:  rec.CreatedAt(),
		UpdatedAt:  rec.UpdatedAt(),
	}

	if admin {
		out.CostCents = rec.CostCents()
	}
	return out
}

// recordPayload is the request body for create and update.
type recordPayload struct {
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	Year       *int   `json:"year"`
	Quantity   *int   `json:"quantity"`
	CostCents  *int   `json:"cost_cents"`
	Format     string `json:"format"`
	Genre      string `json:"genre"`
	Notes      string `json:"notes"`
	IsSpecial  bool   `json:"is_special"`
	IsFavorite bool   `json:"is_favorite"`
	SpotifyURL string `json:"spotify_url"`
	CoverURL   string `json:"cover_url"`
}

func (p *recordPayload) apply(rec *models.Record) {
	rec.SetArtist(p.Artist)
	rec.SetAlbum(p.Album)
	rec.SetYear(p.Year)
	if p.Quantity != nil {
		rec.SetQuantity(*p.Quantity)
	}
	rec.SetCostCents(p.CostCents)
	rec.SetFormat(p.Format)
	rec.SetGenre(p.Genre)
	rec.SetNotes(p.Notes)
	rec.SetSpecial(p.IsSpecial)
	rec.SetFavorite(p.IsFavorite)
	rec.SetSpotifyURL(p.SpotifyURL)
	rec.SetCoverURL(p.CoverURL)
}

// handleListRecords serves the browsing endpoint: the full collection run
// through the filter/sort pipeline described by the query parameters.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.List(map[string]any{"limit": maxListRows})
	if err != nil {
		s.logger.Error("failed to list records", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	view := catalog.Apply(records, catalog.ParseControls(r.URL.Query()))

	admin := SessionFrom(r.Context()).Admin
	out := make([]recordJSON, 0, len(view))
	for _, rec := range view {
		out = append(out, toRecordJSON(rec, admin))
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": out, "total": len(out)})
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec := models.NewRecord(0, payload.Artist, payload.Album)
	payload.apply(rec)

	if err := s.records.Create(rec); err != nil {
		if errors.Is(err, shared.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("failed to create record", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create record")
		return
	}

	writeJSON(w, http.StatusCreated, toRecordJSON(rec, true))
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.logger.Error("failed to load record", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load record")
		return
	}

	var payload recordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	payload.apply(rec)

	if err := s.records.Update(rec); err != nil {
		switch {
		case errors.Is(err, shared.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrRecordNotFound):
			writeError(w, http.StatusNotFound, "record not found")
		default:
			s.logger.Error("failed to update record", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update record")
		}
		return
	}

	writeJSON(w, http.StatusOK, toRecordJSON(rec, true))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.PathValue("id")); err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		s.logger.Error("failed to delete record", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
