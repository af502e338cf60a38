package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ErrArtistNotFound is returned when an artist cannot be found in the DB.
var ErrArtistNotFound = errors.New("artist not found")

const artistColumns = `id, name, city, state, phone, genres, website,
	facebook_link, image_link, seeking_venues, seeking_description`

// ArtistRepo encapsulates all database queries related to artists.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo with the provided DB handle.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

func scanArtist(s rowScanner) (*model.Artist, error) {
	var a model.Artist
	err := s.Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &a.Genres,
		&a.Website, &a.FacebookLink, &a.ImageLink, &a.SeekingVenues, &a.SeekingDescription)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateTx inserts a within tx and sets a.ID to the generated key.
func (r *ArtistRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	return r.create(ctx, tx, a)
}

// Create inserts a outside of any caller transaction.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	return r.create(ctx, r.db, a)
}

func (r *ArtistRepo) create(ctx context.Context, q querier, a *model.Artist) error {
	const qInsert = `INSERT INTO artists
		(name, city, state, phone, genres, website, facebook_link, image_link, seeking_venues, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, qInsert, a.Name, a.City, a.State, a.Phone, a.Genres,
		a.Website, a.FacebookLink, a.ImageLink, a.SeekingVenues, a.SeekingDescription)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// GetByID fetches an artist by id, returning ErrArtistNotFound if absent.
func (r *ArtistRepo) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	a, err := scanArtist(r.db.QueryRowContext(ctx, "SELECT "+artistColumns+" FROM artists WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return a, nil
}

// ExistsTx reports whether an artist with id exists, as seen by tx.
func (r *ArtistRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM artists WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAll returns every artist ordered by id.
func (r *ArtistRepo) ListAll(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+artistColumns+" FROM artists ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// UpdateTx replaces every mutable field of the artist identified by a.ID.
func (r *ArtistRepo) UpdateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	const q = `UPDATE artists SET name = ?, city = ?, state = ?, phone = ?, genres = ?,
		website = ?, facebook_link = ?, image_link = ?, seeking_venues = ?, seeking_description = ?
		WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres,
		a.Website, a.FacebookLink, a.ImageLink, a.SeekingVenues, a.SeekingDescription, a.ID)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrArtistNotFound
	}
	return nil
}

// DeleteTx removes the artist with id, refusing with ErrConflict while
// shows still reference it.
func (r *ArtistRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	var shows int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM shows WHERE artist_id = ?", id).Scan(&shows); err != nil {
		return err
	}
	if shows > 0 {
		return ErrConflict
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM artists WHERE id = ?", id)
	if err != nil {
		if err = classify(err); errors.Is(err, ErrForeignKey) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrArtistNotFound
	}
	return nil
}

// SearchByName returns id and name of artists whose name contains term,
// case-insensitively, ordered by id.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string) ([]NameMatch, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM artists WHERE "+nameSearchCond+" ORDER BY id", containsPattern(term))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []NameMatch{}
	for rows.Next() {
		var m NameMatch
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
