package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vinylvault/internal/models"
	"vinylvault/internal/shared"
)

// RecordsTable is the table name used for sequences and change feed topics.
const RecordsTable = "records"

const recordColumns = `id, sequence, artist, album, year, quantity, cost_cents, format, genre, notes,
		is_special, is_favorite, spotify_url, cover_url, created_at, updated_at`

// RecordRepository implements models.Repository[*models.Record].
//
// Records are hard-deleted; the catalog keeps no tombstones or versions.
// Every successful write publishes a notification on the change feed.
type RecordRepository struct {
	db   *sql.DB
	feed *ChangeFeed
}

// NewRecordRepository creates a new RecordRepository with the given database
// connection. The feed may be nil when no live views are attached.
func NewRecordRepository(db *sql.DB, feed *ChangeFeed) *RecordRepository {
	return &RecordRepository{db: db, feed: feed}
}

// Create inserts a new [models.Record] into the database with generated ID and sequence.
func (r *RecordRepository) Create(rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, RecordsTable)
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	rec.SetID(id)

	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		rec.Artist(),
		rec.Album(),
		nullableInt(rec.Year()),
		rec.Quantity(),
		nullableInt(rec.CostCents()),
		rec.Format(),
		rec.Genre(),
		rec.Notes(),
		rec.IsSpecial(),
		rec.IsFavorite(),
		rec.SpotifyURL(),
		rec.CoverURL(),
		rec.CreatedAt(),
		rec.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	r.notify()
	return nil
}

// Get retrieves a record by ID.
func (r *RecordRepository) Get(id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing record in the database and refreshes its
// updated_at timestamp.
func (r *RecordRepository) Update(rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	rec.SetUpdatedAt(now)

	query := `
		UPDATE records
		SET artist = ?, album = ?, year = ?, quantity = ?, cost_cents = ?, format = ?,
			genre = ?, notes = ?, is_special = ?, is_favorite = ?, spotify_url = ?,
			cover_url = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		rec.Artist(),
		rec.Album(),
		nullableInt(rec.Year()),
		rec.Quantity(),
		nullableInt(rec.CostCents()),
		rec.Format(),
		rec.Genre(),
		rec.Notes(),
		rec.IsSpecial(),
		rec.IsFavorite(),
		rec.SpotifyURL(),
		rec.CoverURL(),
		now,
		rec.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, rec.ID())
	}

	r.notify()
	return nil
}

// SetCoverURL performs the partial write-back used by the cover resolver:
// only cover_url and updated_at change.
func (r *RecordRepository) SetCoverURL(id, coverURL string) error {
	result, err := r.db.Exec(
		"UPDATE records SET cover_url = ?, updated_at = ? WHERE id = ?",
		coverURL, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set cover url: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}

	r.notify()
	return nil
}

// Delete removes a record by ID.
func (r *RecordRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecordNotFound, id)
	}

	r.notify()
	return nil
}

// List retrieves all records matching the given criteria.
//
// Supported criteria:
//   - "format" (string): exact format match
//   - "missing_cover" (bool): only records without a cover URL
//   - "order_by" (string): one of sequence, artist, created_at, updated_at
//   - "limit" (int): maximum number of rows
func (r *RecordRepository) List(criteria map[string]any) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE 1 = 1`

	args := []any{}

	if format, ok := criteria["format"].(string); ok && format != "" {
		query += " AND format = ?"
		args = append(args, format)
	}

	if missing, ok := criteria["missing_cover"].(bool); ok && missing {
		query += " AND cover_url = ''"
	}

	orderBy := "sequence"
	if col, ok := criteria["order_by"].(string); ok && col != "" {
		switch col {
		case "sequence", "artist", "created_at", "updated_at":
			orderBy = col
		default:
			return nil, fmt.Errorf("%w: order_by %q", shared.ErrInvalidArgument, col)
		}
	}
	query += " ORDER BY " + orderBy + " ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

func (r *RecordRepository) notify() {
	if r.feed != nil {
		r.feed.Notify(RecordsTable)
	}
}

type recordScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a row of recordColumns into a [models.Record].
func scanRecord(row recordScanner) (*models.Record, error) {
	var (
		id         string
		sequence   int
		artist     string
		album      string
		year       sql.NullInt64
		quantity   int
		costCents  sql.NullInt64
		format     string
		genre      string
		notes      string
		isSpecial  bool
		isFavorite bool
		spotifyURL string
		coverURL   string
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(&id, &sequence, &artist, &album, &year, &quantity, &costCents,
		&format, &genre, &notes, &isSpecial, &isFavorite, &spotifyURL, &coverURL,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec := models.NewRecord(sequence, artist, album)
	rec.SetID(id)
	rec.SetQuantity(quantity)
	if year.Valid {
		y := int(year.Int64)
		rec.SetYear(&y)
	}
	if costCents.Valid {
		c := int(costCents.Int64)
		rec.SetCostCents(&c)
	}
	rec.SetFormat(format)
	rec.SetGenre(genre)
	rec.SetNotes(notes)
	rec.SetSpecial(isSpecial)
	rec.SetFavorite(isFavorite)
	rec.SetSpotifyURL(spotifyURL)
	rec.SetCoverURL(coverURL)
	rec.SetCreatedAt(createdAt)
	rec.SetUpdatedAt(updatedAt)

	return rec, nil
}

// scanOne scans a single [sql.Row] into a [models.Record].
func (r *RecordRepository) scanOne(row *sql.Row) (*models.Record, error) {
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	return rec, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Record].
func (r *RecordRepository) scanRow(rows *sql.Rows) (*models.Record, error) {
	rec, err := scanRecord(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record: %w", err)
	}
	return rec, nil
}

// nullableInt converts an optional int to its SQL representation.
func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
