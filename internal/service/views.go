package service

import (
	"time"

	"github.com/iliyamo/venue-directory/internal/model"
	"github.com/iliyamo/venue-directory/internal/repository"
)

// VenueSummary is one entry of a city group.
type VenueSummary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// VenueArea groups the venues of one (city, state).
type VenueArea struct {
	City   string         `json:"city"`
	State  string         `json:"state"`
	Venues []VenueSummary `json:"venues"`
}

// ShowItem is a show seen from one endpoint: it names the counterpart.
// On a venue page the counterpart is the artist and vice versa.
type ShowItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ImageLink *string   `json:"image_link,omitempty"`
	StartTime time.Time `json:"start_time"`
}

// VenueDetail is a venue with its shows split at now.
type VenueDetail struct {
	model.Venue
	PastShows          []ShowItem `json:"past_shows"`
	UpcomingShows      []ShowItem `json:"upcoming_shows"`
	PastShowsCount     int        `json:"past_shows_count"`
	UpcomingShowsCount int        `json:"upcoming_shows_count"`
}

// ArtistDetail is an artist with its shows split at now.
type ArtistDetail struct {
	model.Artist
	PastShows          []ShowItem `json:"past_shows"`
	UpcomingShows      []ShowItem `json:"upcoming_shows"`
	PastShowsCount     int        `json:"past_shows_count"`
	UpcomingShowsCount int        `json:"upcoming_shows_count"`
}

// ArtistSummary is one row of the artist listing.
type ArtistSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchResult is the answer to a name search.
type SearchResult struct {
	Count int                    `json:"count"`
	Data  []repository.NameMatch `json:"data"`
}

// ShowListing is one row of the show listing.
type ShowListing struct {
	VenueID         int64     `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	ArtistID        int64     `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink *string   `json:"artist_image_link,omitempty"`
	StartTime       time.Time `json:"start_time"`
}
