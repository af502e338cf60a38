// Package queue defines the domain events published to the message broker
// after a directory mutation commits.
package queue

import "time"

// Event names double as the routing key and queue name.
const (
	VenueListed   = "venue.listed"
	VenueRemoved  = "venue.removed"
	ArtistListed  = "artist.listed"
	ArtistRemoved = "artist.removed"
	ShowListed    = "show.listed"
)

// Event is the payload of every directory event. Fields that do not apply
// to an event type are omitted.
type Event struct {
	Type       string     `json:"type"`
	ID         int64      `json:"id"`
	Name       string     `json:"name,omitempty"`
	City       string     `json:"city,omitempty"`
	State      string     `json:"state,omitempty"`
	ArtistID   int64      `json:"artist_id,omitempty"`
	VenueID    int64      `json:"venue_id,omitempty"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
