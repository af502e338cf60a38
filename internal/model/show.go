package model

import "time"

// Show is the association between an Artist and a Venue at a point in
// time.  Shows are created once and never modified in place.
//
// Fields:
//  ID        – primary key identifier.
//  ArtistID  – artist performing; must reference artists.id.
//  VenueID   – venue hosting the show; must reference venues.id.
//  StartTime – when the show begins, always UTC with second precision.
type Show struct {
	ID        int64     `json:"id"`         // shows.id
	ArtistID  int64     `json:"artist_id"`  // shows.artist_id
	VenueID   int64     `json:"venue_id"`   // shows.venue_id
	StartTime time.Time `json:"start_time"` // shows.start_time
}

// ShowListing is a show joined with the names of both endpoints.  It is
// produced by a single JOIN query so callers do not need one lookup per
// show.
type ShowListing struct {
	Show
	VenueName       string  `json:"venue_name"`
	VenueImageLink  *string `json:"venue_image_link,omitempty"`
	ArtistName      string  `json:"artist_name"`
	ArtistImageLink *string `json:"artist_image_link,omitempty"`
}

// NormalizeTime converts t into the canonical start_time representation
// used across the store: UTC, truncated to whole seconds.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
