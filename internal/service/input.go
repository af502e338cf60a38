package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/iliyamo/venue-directory/internal/model"
)

var (
	nameRules  = []validation.Rule{validation.Required, validation.Length(1, 120)}
	placeRules = []validation.Rule{validation.Length(0, 120)}
	linkRules  = []validation.Rule{validation.NilOrNotEmpty, is.URL, validation.Length(0, 500)}
	genreRules = []validation.Rule{validation.Each(validation.Length(0, 60))}
	pitchRules = []validation.Rule{validation.Length(0, 500)}
)

// VenueInput carries the fields of a create or full update.
type VenueInput struct {
	Name               string   `json:"name" form:"name"`
	City               string   `json:"city" form:"city"`
	State              string   `json:"state" form:"state"`
	Address            string   `json:"address" form:"address"`
	Phone              string   `json:"phone" form:"phone"`
	Genres             []string `json:"genres" form:"genres"`
	Website            *string  `json:"website" form:"website"`
	FacebookLink       *string  `json:"facebook_link" form:"facebook_link"`
	ImageLink          *string  `json:"image_link" form:"image_link"`
	SeekingTalent      bool     `json:"seeking_talent" form:"seeking_talent"`
	SeekingDescription *string  `json:"seeking_description" form:"seeking_description"`
}

// Validate checks the trimmed input.
func (in VenueInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, nameRules...),
		validation.Field(&in.City, append([]validation.Rule{validation.Required}, placeRules...)...),
		validation.Field(&in.State, append([]validation.Rule{validation.Required}, placeRules...)...),
		validation.Field(&in.Address, placeRules...),
		validation.Field(&in.Phone, placeRules...),
		validation.Field(&in.Genres, genreRules...),
		validation.Field(&in.Website, linkRules...),
		validation.Field(&in.FacebookLink, linkRules...),
		validation.Field(&in.ImageLink, linkRules...),
		validation.Field(&in.SeekingDescription, pitchRules...),
	)
}

func (in VenueInput) normalize() VenueInput {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Website = trimOptional(in.Website)
	in.FacebookLink = trimOptional(in.FacebookLink)
	in.ImageLink = trimOptional(in.ImageLink)
	in.SeekingDescription = trimOptional(in.SeekingDescription)
	return in
}

func (in VenueInput) venue(id int64) *model.Venue {
	return &model.Venue{
		ID:                 id,
		Name:               in.Name,
		City:               in.City,
		State:              in.State,
		Address:            in.Address,
		Phone:              in.Phone,
		Genres:             model.NewGenres(in.Genres),
		Website:            in.Website,
		FacebookLink:       in.FacebookLink,
		ImageLink:          in.ImageLink,
		SeekingTalent:      in.SeekingTalent,
		SeekingDescription: in.SeekingDescription,
	}
}

// ArtistInput carries the fields of a create or full update.
type ArtistInput struct {
	Name               string   `json:"name" form:"name"`
	City               string   `json:"city" form:"city"`
	State              string   `json:"state" form:"state"`
	Phone              string   `json:"phone" form:"phone"`
	Genres             []string `json:"genres" form:"genres"`
	Website            *string  `json:"website" form:"website"`
	FacebookLink       *string  `json:"facebook_link" form:"facebook_link"`
	ImageLink          *string  `json:"image_link" form:"image_link"`
	SeekingVenues      bool     `json:"seeking_venues" form:"seeking_venues"`
	SeekingDescription *string  `json:"seeking_description" form:"seeking_description"`
}

// Validate checks the trimmed input. Only the name is required.
func (in ArtistInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, nameRules...),
		validation.Field(&in.City, placeRules...),
		validation.Field(&in.State, placeRules...),
		validation.Field(&in.Phone, placeRules...),
		validation.Field(&in.Genres, genreRules...),
		validation.Field(&in.Website, linkRules...),
		validation.Field(&in.FacebookLink, linkRules...),
		validation.Field(&in.ImageLink, linkRules...),
		validation.Field(&in.SeekingDescription, pitchRules...),
	)
}

func (in ArtistInput) normalize() ArtistInput {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Website = trimOptional(in.Website)
	in.FacebookLink = trimOptional(in.FacebookLink)
	in.ImageLink = trimOptional(in.ImageLink)
	in.SeekingDescription = trimOptional(in.SeekingDescription)
	return in
}

func (in ArtistInput) artist(id int64) *model.Artist {
	return &model.Artist{
		ID:                 id,
		Name:               in.Name,
		City:               in.City,
		State:              in.State,
		Phone:              in.Phone,
		Genres:             model.NewGenres(in.Genres),
		Website:            in.Website,
		FacebookLink:       in.FacebookLink,
		ImageLink:          in.ImageLink,
		SeekingVenues:      in.SeekingVenues,
		SeekingDescription: in.SeekingDescription,
	}
}

// ShowInput books an artist at a venue.
type ShowInput struct {
	ArtistID  int64     `json:"artist_id"`
	VenueID   int64     `json:"venue_id"`
	StartTime time.Time `json:"start_time"`
}

// Validate checks that both references and the start time are set.
func (in ShowInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ArtistID, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.VenueID, validation.Required, validation.Min(int64(1))),
		validation.Field(&in.StartTime, validation.Required),
	)
}

// trimOptional trims s and turns a blank value into nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// firstField names the first failing field of an ozzo error, in key order.
func firstField(err error) string {
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
