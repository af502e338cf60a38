package model

// Venue is a place that hosts shows.  It corresponds to a row in the
// `venues` table.  Name, City and State are required; the remaining
// profile fields are optional and nil pointers map to NULL columns.
//
// Fields:
//  ID                 – primary key, assigned by the store and never changed.
//  Name               – display name of the venue.
//  City, State        – location used to group venues into areas.
//  Address, Phone     – free-form contact details (may be empty).
//  Genres             – set of genre tags the venue books.
//  Website            – optional website URL.
//  FacebookLink       – optional Facebook page URL.
//  ImageLink          – optional picture URL.
//  SeekingTalent      – whether the venue is looking for artists.
//  SeekingDescription – optional pitch, only meaningful when SeekingTalent is set.
type Venue struct {
	ID                 int64   `json:"id"`                            // venues.id
	Name               string  `json:"name"`                          // venues.name
	City               string  `json:"city"`                          // venues.city
	State              string  `json:"state"`                         // venues.state
	Address            string  `json:"address"`                       // venues.address
	Phone              string  `json:"phone"`                         // venues.phone
	Genres             Genres  `json:"genres"`                        // venues.genres (JSON array)
	Website            *string `json:"website,omitempty"`             // venues.website (nullable)
	FacebookLink       *string `json:"facebook_link,omitempty"`       // venues.facebook_link (nullable)
	ImageLink          *string `json:"image_link,omitempty"`          // venues.image_link (nullable)
	SeekingTalent      bool    `json:"seeking_talent"`                // venues.seeking_talent
	SeekingDescription *string `json:"seeking_description,omitempty"` // venues.seeking_description (nullable)
}
