package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ErrShowNotFound is returned when a show cannot be found in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo provides access to the shows table. Shows are created once and
// never updated or deleted.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo returns a ShowRepo bound to the given database.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// CreateTx inserts s within tx. StartTime is normalized to UTC seconds
// before the write and s.ID is set to the generated key. A missing
// artist or venue surfaces as ErrForeignKey.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	s.StartTime = model.NormalizeTime(s.StartTime)
	res, err := tx.ExecContext(ctx,
		"INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)",
		s.ArtistID, s.VenueID, s.StartTime)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

// GetByID fetches a show by id, returning ErrShowNotFound if absent.
func (r *ShowRepo) GetByID(ctx context.Context, id int64) (*model.Show, error) {
	var s model.Show
	err := r.db.QueryRowContext(ctx,
		"SELECT id, artist_id, venue_id, start_time FROM shows WHERE id = ?", id).
		Scan(&s.ID, &s.ArtistID, &s.VenueID, &s.StartTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	s.StartTime = s.StartTime.UTC()
	return &s, nil
}

// ListAll returns every show ordered by id.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, artist_id, venue_id, start_time FROM shows ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Show
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.ArtistID, &s.VenueID, &s.StartTime); err != nil {
			return nil, err
		}
		s.StartTime = s.StartTime.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

const listingSelect = `SELECT s.id, s.artist_id, s.venue_id, s.start_time,
		v.name, v.image_link, a.name, a.image_link
	FROM shows s
	JOIN venues v  ON v.id = s.venue_id
	JOIN artists a ON a.id = s.artist_id`

// ListListings returns every show joined with its venue and artist,
// ordered by start time then id.
func (r *ShowRepo) ListListings(ctx context.Context) ([]model.ShowListing, error) {
	return r.listings(ctx, listingSelect+" ORDER BY s.start_time, s.id")
}

// ListByVenue returns the shows hosted by venueID with both endpoints.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID int64) ([]model.ShowListing, error) {
	return r.listings(ctx, listingSelect+" WHERE s.venue_id = ? ORDER BY s.start_time, s.id", venueID)
}

// ListByArtist returns the shows played by artistID with both endpoints.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID int64) ([]model.ShowListing, error) {
	return r.listings(ctx, listingSelect+" WHERE s.artist_id = ? ORDER BY s.start_time, s.id", artistID)
}

func (r *ShowRepo) listings(ctx context.Context, q string, args ...any) ([]model.ShowListing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShowListing
	for rows.Next() {
		var l model.ShowListing
		if err := rows.Scan(&l.ID, &l.ArtistID, &l.VenueID, &l.StartTime,
			&l.VenueName, &l.VenueImageLink, &l.ArtistName, &l.ArtistImageLink); err != nil {
			return nil, err
		}
		l.StartTime = l.StartTime.UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}
