package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/venue-directory/internal/model"
	"github.com/iliyamo/venue-directory/internal/queue"
	"github.com/iliyamo/venue-directory/internal/repository"
)

// inTx runs fn in one transaction. Any error from fn rolls back and is
// returned as is; a failed begin or commit becomes a store error. Either
// way the database is left as it was before the call.
func (d *Directory) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	log := d.log.WithField("op", op)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(op, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.WithError(rbErr).Error("rollback failed")
		}
		log.WithError(err).Warn("mutation rolled back")
		return err
	}
	if err := tx.Commit(); err != nil {
		log.WithError(err).Warn("commit failed")
		return storeErr(op, err)
	}
	return nil
}

// repoErr converts a repository failure into a service error.
func repoErr(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrVenueNotFound),
		errors.Is(err, repository.ErrArtistNotFound),
		errors.Is(err, repository.ErrShowNotFound):
		return notFoundErr(op, err)
	case errors.Is(err, repository.ErrConflict):
		return conflictErr(op, err)
	case errors.Is(err, repository.ErrForeignKey), errors.Is(err, repository.ErrNotNull):
		return validationErr(op, "", err)
	}
	return storeErr(op, err)
}

func (d *Directory) publish(ctx context.Context, ev queue.Event) {
	if d.events == nil {
		return
	}
	ev.OccurredAt = d.now()
	// the mutation is committed; the event outlives a cancelled request
	if err := d.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		d.log.WithError(err).WithField("event", ev.Type).Warn("event not published")
	}
}

// CreateVenue validates in and stores a new venue, returning its id.
func (d *Directory) CreateVenue(ctx context.Context, in VenueInput) (int64, error) {
	const op = "CreateVenue"
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return 0, validationErr(op, firstField(err), err)
	}

	v := in.venue(0)
	err := d.inTx(ctx, op, func(tx *sql.Tx) error {
		if err := d.venues.CreateTx(ctx, tx, v); err != nil {
			return repoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	d.log.WithFields(logrus.Fields{"op": op, "venue_id": v.ID}).Info("venue listed")
	d.publish(ctx, queue.Event{Type: queue.VenueListed, ID: v.ID, Name: v.Name, City: v.City, State: v.State})
	return v.ID, nil
}

// UpdateVenue replaces every field of venue id with in.
func (d *Directory) UpdateVenue(ctx context.Context, id int64, in VenueInput) error {
	const op = "UpdateVenue"
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return validationErr(op, firstField(err), err)
	}

	err := d.inTx(ctx, op, func(tx *sql.Tx) error {
		if err := d.venues.UpdateTx(ctx, tx, in.venue(id)); err != nil {
			return repoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{"op": op, "venue_id": id}).Info("venue updated")
	return nil
}

// DeleteVenue removes venue id. A venue with shows is refused with a
// conflict; an unknown id is not found.
func (d *Directory) DeleteVenue(ctx context.Context, id int64) error {
	const op = "DeleteVenue"
	err := d.inTx(ctx, op, func(tx *sql.Tx) error {
		if err := d.venues.DeleteTx(ctx, tx, id); err != nil {
			return repoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.log.WithFields(logrus.Fields{"op": op, "venue_id": id}).Info("venue removed")
	d.publish(ctx, queue.Event{Type: queue.VenueRemoved, ID: id})
	return nil
}

// CreateArtist validates in and stores a new artist, returning its id.
func (d *Directory) CreateArtist(ctx context.Context, in ArtistInput) (int64, error) {
	const op = "CreateArtist"
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return 0, validationErr(op, firstField(err), err)
	}

	a := in.artist(0)
	err := d.inTx(ctx, op, func(tx *sql.Tx) error {
		if err := d.artists.CreateTx(ctx, tx, a); err != nil {
			return repoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	d.log.WithFields(logrus.Fields{"op": op, "artist_id": a.ID}).Info("artist listed")
	d.publish(ctx, queue.Event{Type: queue.ArtistListed, ID: a.ID, Name: a.Name, City: a.City, State: a.State})
	return a.ID, nil
}

// UpdateArtist replaces every field of artist id with in.
func (d *Directory) UpdateArtist(ctx context.Context, id int64, in ArtistInput) error {
	const op = "UpdateArtist"
	in = in.normalize()
	if err := in.Validate(); err != nil {
		return validationErr(op, firstField(err), err)
	}

	err := d.inTx(ctx, op, func(tx *sql.Tx) error {
		if err := d.artists.UpdateTx(ctx, tx, in.artist(id)); err != nil {
			return repoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.log.WithFields(logrus.Fields{"op": op, "artist_id": id}).Info("artist updated")
	return nil
}

// DeleteArtist removes artist id under the same rules as DeleteVenue.
func (d *Directory) DeleteArtist(ctx context.Context, id int64) error {
	const op = "DeleteArtist"
	err := d.inTx(ctx, op, func(tx *sql.Tx) error {
		if err := d.artists.DeleteTx(ctx, tx, id); err != nil {
			return repoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.log.WithFields(logrus.Fields{"op": op, "artist_id": id}).Info("artist removed")
	d.publish(ctx, queue.Event{Type: queue.ArtistRemoved, ID: id})
	return nil
}

// CreateShow books in.ArtistID at in.VenueID. Both must exist when the
// transaction runs; a missing one is a validation error on its field.
func (d *Directory) CreateShow(ctx context.Context, in ShowInput) (int64, error) {
	const op = "CreateShow"
	if err := in.Validate(); err != nil {
		return 0, validationErr(op, firstField(err), err)
	}

	s := &model.Show{ArtistID: in.ArtistID, VenueID: in.VenueID, StartTime: in.StartTime}
	err := d.inTx(ctx, op, func(tx *sql.Tx) error {
		ok, err := d.artists.ExistsTx(ctx, tx, in.ArtistID)
		if err != nil {
			return storeErr(op, err)
		}
		if !ok {
			return validationErr(op, "artist_id", repository.ErrArtistNotFound)
		}
		ok, err = d.venues.ExistsTx(ctx, tx, in.VenueID)
		if err != nil {
			return storeErr(op, err)
		}
		if !ok {
			return validationErr(op, "venue_id", repository.ErrVenueNotFound)
		}
		if err := d.shows.CreateTx(ctx, tx, s); err != nil {
			return repoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	d.log.WithFields(logrus.Fields{"op": op, "show_id": s.ID}).Info("show listed")
	start := s.StartTime
	d.publish(ctx, queue.Event{Type: queue.ShowListed, ID: s.ID, ArtistID: s.ArtistID, VenueID: s.VenueID, StartTime: &start})
	return s.ID, nil
}
