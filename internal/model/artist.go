package model

// Artist is a performer that can be booked at venues.  Only Name is
// required.  SeekingVenues mirrors Venue.SeekingTalent from the
// artist's side.
type Artist struct {
	ID                 int64   `json:"id"`                            // artists.id
	Name               string  `json:"name"`                          // artists.name
	City               string  `json:"city"`                          // artists.city
	State              string  `json:"state"`                         // artists.state
	Phone              string  `json:"phone"`                         // artists.phone
	Genres             Genres  `json:"genres"`                        // artists.genres (JSON array)
	Website            *string `json:"website,omitempty"`             // artists.website (nullable)
	FacebookLink       *string `json:"facebook_link,omitempty"`       // artists.facebook_link (nullable)
	ImageLink          *string `json:"image_link,omitempty"`          // artists.image_link (nullable)
	SeekingVenues      bool    `json:"seeking_venues"`                // artists.seeking_venues
	SeekingDescription *string `json:"seeking_description,omitempty"` // artists.seeking_description (nullable)
}
