package models

import (
	"fmt"
	"strings"
	"time"

	"vinylvault/internal/shared"
)

var _ Model = (*Record)(nil)

// Record represents a vinyl record in the collection.
//
// Artist and album form the natural key used for search, sorting and cover
// lookups; they are required but not unique. Year and cost are optional, and
// quantity weights every aggregate statistic. Records are hard-deleted: there
// is no soft delete or versioning.
type Record struct {
	id         string
	sequence   int
	artist     string
	album      string
	year       *int
	quantity   int
	costCents  *int
	format     string
	genre      string
	notes      string
	isSpecial  bool
	isFavorite bool
	spotifyURL string
	coverURL   string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewRecord creates a record with the given sequence, artist and album.
// Quantity defaults to 1 and both timestamps are set to the current time.
func NewRecord(sequence int, artist, album string) *Record {
	now := time.Now()
	return &Record{
		sequence:  sequence,
		artist:    artist,
		album:     album,
		quantity:  1,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *Record) ID() string { return r.id }

func (r *Record) Sequence() int { return r.sequence }

func (r *Record) Artist() string { return r.artist }

func (r *Record) Album() string { return r.album }

func (r *Record) Year() *int { return r.year }

func (r *Record) Quantity() int { return r.quantity }

func (r *Record) CostCents() *int { return r.costCents }

func (r *Record) Format() string { return r.format }

func (r *Record) Genre() string { return r.genre }

func (r *Record) Notes() string { return r.notes }

func (r *Record) IsSpecial() bool { return r.isSpecial }

func (r *Record) IsFavorite() bool { return r.isFavorite }

func (r *Record) SpotifyURL() string { return r.spotifyURL }

func (r *Record) CoverURL() string { return r.coverURL }

func (r *Record) CreatedAt() time.Time { return r.createdAt }

func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

func (r *Record) SetID(id string) { r.id = id }

func (r *Record) SetArtist(artist string) { r.artist = artist }

func (r *Record) SetAlbum(album string) { r.album = album }

func (r *Record) SetYear(year *int) { r.year = year }

func (r *Record) SetQuantity(quantity int) { r.quantity = quantity }

func (r *Record) SetCostCents(cents *int) { r.costCents = cents }

func (r *Record) SetFormat(format string) { r.format = format }

func (r *Record) SetGenre(genre string) { r.genre = genre }

func (r *Record) SetNotes(notes string) { r.notes = notes }

func (r *Record) SetSpecial(special bool) { r.isSpecial = special }

func (r *Record) SetFavorite(favorite bool) { r.isFavorite = favorite }

func (r *Record) SetSpotifyURL(url string) { r.spotifyURL = url }

func (r *Record) SetCoverURL(url string) { r.coverURL = url }

func (r *Record) SetCreatedAt(t time.Time) { r.createdAt = t }

func (r *Record) SetUpdatedAt(t time.Time) { r.updatedAt = t }

// Touched returns the later of the record's created and updated timestamps.
// Used for "recently added" ordering.
func (r *Record) Touched() time.Time {
	if r.updatedAt.After(r.createdAt) {
		return r.updatedAt
	}
	return r.createdAt
}

// Validate checks that the record satisfies the catalog invariants.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.artist) == "" {
		return fmt.Errorf("%w: artist is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(r.album) == "" {
		return fmt.Errorf("%w: album is required", shared.ErrInvalidInput)
	}
	if r.quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d", shared.ErrInvalidInput, r.quantity)
	}
	if r.year != nil && *r.year < 0 {
		return fmt.Errorf("%w: year must not be negative, got %d", shared.ErrInvalidInput, *r.year)
	}
	if r.costCents != nil && *r.costCents < 0 {
		return fmt.Errorf("%w: cost must not be negative, got %d", shared.ErrInvalidInput, *r.costCents)
	}
	return nil
}
