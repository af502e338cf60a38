// Package service holds the directory's business logic: the read-side
// views built from venues, artists and shows, and the transactional
// mutations that change them.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/venue-directory/internal/queue"
	"github.com/iliyamo/venue-directory/internal/repository"
)

// EventPublisher receives an event after each committed mutation.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Directory is the entry point for every read and write. It is safe for
// concurrent use; all state lives in the database.
type Directory struct {
	db      *sql.DB
	venues  *repository.VenueRepo
	artists *repository.ArtistRepo
	shows   *repository.ShowRepo
	events  EventPublisher
	log     logrus.FieldLogger

	// Now is the clock used to split shows into past and upcoming.
	Now func() time.Time
}

// NewDirectory wires the repositories over db. events may be nil, in which
// case nothing is published.
func NewDirectory(db *sql.DB, log logrus.FieldLogger, events EventPublisher) *Directory {
	return &Directory{
		db:      db,
		venues:  repository.NewVenueRepo(db),
		artists: repository.NewArtistRepo(db),
		shows:   repository.NewShowRepo(db),
		events:  events,
		log:     log,
		Now:     time.Now,
	}
}

// Ping checks that the store is reachable.
func (d *Directory) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *Directory) now() time.Time {
	return d.Now().UTC()
}
