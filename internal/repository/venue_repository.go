// Package repository contains data access logic separated from HTTP handlers.
// This file holds the venue queries. A Venue is a place hosting shows;
// deleting one that still has shows is refused by the schema.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/venue-directory/internal/model"
)

// ErrVenueNotFound is returned when a venue cannot be found in the DB.
var ErrVenueNotFound = errors.New("venue not found")

const venueColumns = `id, name, city, state, address, phone, genres, website,
	facebook_link, image_link, seeking_talent, seeking_description`

// VenueRepo encapsulates all database queries related to venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

func scanVenue(s rowScanner) (*model.Venue, error) {
	var v model.Venue
	err := s.Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address, &v.Phone, &v.Genres,
		&v.Website, &v.FacebookLink, &v.ImageLink, &v.SeekingTalent, &v.SeekingDescription)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateTx inserts v within tx and sets v.ID to the generated key.
func (r *VenueRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	return r.create(ctx, tx, v)
}

// Create inserts v outside of any caller transaction.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	return r.create(ctx, r.db, v)
}

func (r *VenueRepo) create(ctx context.Context, q querier, v *model.Venue) error {
	const qInsert = `INSERT INTO venues
		(name, city, state, address, phone, genres, website, facebook_link, image_link, seeking_talent, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, qInsert, v.Name, v.City, v.State, v.Address, v.Phone, v.Genres,
		v.Website, v.FacebookLink, v.ImageLink, v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

// GetByID fetches a venue by id, returning ErrVenueNotFound if absent.
func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	v, err := scanVenue(r.db.QueryRowContext(ctx, "SELECT "+venueColumns+" FROM venues WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// ExistsTx reports whether a venue with id exists, as seen by tx.
func (r *VenueRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id int64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM venues WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListAll returns every venue ordered by id.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+venueColumns+" FROM venues ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Venue
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// UpdateTx replaces every mutable field of the venue identified by v.ID.
// It returns ErrVenueNotFound when no row matches.
func (r *VenueRepo) UpdateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	const q = `UPDATE venues SET name = ?, city = ?, state = ?, address = ?, phone = ?, genres = ?,
		website = ?, facebook_link = ?, image_link = ?, seeking_talent = ?, seeking_description = ?
		WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, v.Phone, v.Genres,
		v.Website, v.FacebookLink, v.ImageLink, v.SeekingTalent, v.SeekingDescription, v.ID)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// DeleteTx removes the venue with id. A venue that still has shows is
// refused with ErrConflict; a missing one yields ErrVenueNotFound.
func (r *VenueRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id int64) error {
	var shows int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM shows WHERE venue_id = ?", id).Scan(&shows); err != nil {
		return err
	}
	if shows > 0 {
		return ErrConflict
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM venues WHERE id = ?", id)
	if err != nil {
		err = classify(err)
		if errors.Is(err, ErrForeignKey) {
			// a show was added between the count and the delete
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVenueNotFound
	}
	return nil
}

// SearchByName returns id and name of venues whose name contains term,
// case-insensitively, ordered by id.
func (r *VenueRepo) SearchByName(ctx context.Context, term string) ([]NameMatch, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM venues WHERE "+nameSearchCond+" ORDER BY id", containsPattern(term))
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
