package service

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/iliyamo/venue-directory/internal/model"
	"github.com/iliyamo/venue-directory/internal/repository"
)

type areaKey struct{ city, state string }

// GroupVenuesByCity groups venues by (city, state). Groups appear in the
// order their first venue appears in venues; inside a group venues are
// ordered by name, case-insensitively, then by id. NumUpcomingShows counts
// the venue's shows starting strictly after now.
func GroupVenuesByCity(venues []model.Venue, shows []model.Show, now time.Time) []VenueArea {
	upcoming := make(map[int64]int)
	for _, s := range shows {
		if s.StartTime.After(now) {
			upcoming[s.VenueID]++
		}
	}

	index := make(map[areaKey]int)
	areas := []VenueArea{}
	for _, v := range venues {
		k := areaKey{v.City, v.State}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, VenueArea{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, VenueSummary{
			ID:               v.ID,
			Name:             v.Name,
			NumUpcomingShows: upcoming[v.ID],
		})
	}

	for i := range areas {
		slices.SortFunc(areas[i].Venues, func(a, b VenueSummary) int {
			if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return areas
}

// PartitionShows splits shows at now. A show starting exactly at now is in
// neither list. Both lists are ordered by start time, then id.
func PartitionShows(shows []model.ShowListing, now time.Time) (past, upcoming []model.ShowListing) {
	past = []model.ShowListing{}
	upcoming = []model.ShowListing{}
	for _, s := range shows {
		switch {
		case s.StartTime.Before(now):
			past = append(past, s)
		case s.StartTime.After(now):
			upcoming = append(upcoming, s)
		}
	}
	byStart := func(a, b model.ShowListing) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
	slices.SortFunc(past, byStart)
	slices.SortFunc(upcoming, byStart)
	return past, upcoming
}

func artistItems(shows []model.ShowListing) []ShowItem {
	out := make([]ShowItem, 0, len(shows))
	for _, s := range shows {
		out = append(out, ShowItem{ID: s.ArtistID, Name: s.ArtistName, ImageLink: s.ArtistImageLink, StartTime: s.StartTime})
	}
	return out
}

func venueItems(shows []model.ShowListing) []ShowItem {
	out := make([]ShowItem, 0, len(shows))
	for _, s := range shows {
		out = append(out, ShowItem{ID: s.VenueID, Name: s.VenueName, ImageLink: s.VenueImageLink, StartTime: s.StartTime})
	}
	return out
}

// ListVenueAreas returns every venue grouped by city.
func (d *Directory) ListVenueAreas(ctx context.Context) ([]VenueArea, error) {
	const op = "ListVenueAreas"
	venues, err := d.venues.ListAll(ctx)
	if err != nil {
		return nil, storeErr(op, err)
	}
	shows, err := d.shows.ListAll(ctx)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return GroupVenuesByCity(venues, shows, d.now()), nil
}

// GetVenue returns the stored venue.
func (d *Directory) GetVenue(ctx context.Context, id int64) (*model.Venue, error) {
	v, err := d.venues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return nil, notFoundErr("GetVenue", err)
		}
		return nil, storeErr("GetVenue", err)
	}
	return v, nil
}

// VenueDetail returns the venue with its past and upcoming shows. The
// seeking description is dropped unless the venue is seeking talent.
func (d *Directory) VenueDetail(ctx context.Context, id int64) (*VenueDetail, error) {
	v, err := d.GetVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := d.shows.ListByVenue(ctx, id)
	if err != nil {
		return nil, storeErr("VenueDetail", err)
	}
	past, upcoming := PartitionShows(shows, d.now())

	if !v.SeekingTalent {
		v.SeekingDescription = nil
	}
	return &VenueDetail{
		Venue:              *v,
		PastShows:          artistItems(past),
		UpcomingShows:      artistItems(upcoming),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

// SearchVenues finds venues whose name contains term, ignoring case.
func (d *Directory) SearchVenues(ctx context.Context, term string) (*SearchResult, error) {
	hits, err := d.venues.SearchByName(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, storeErr("SearchVenues", err)
	}
	return &SearchResult{Count: len(hits), Data: hits}, nil
}

// ListArtists returns id and name of every artist, ordered by id.
func (d *Directory) ListArtists(ctx context.Context) ([]ArtistSummary, error) {
	artists, err := d.artists.ListAll(ctx)
	if err != nil {
		return nil, storeErr("ListArtists", err)
	}
	out := make([]ArtistSummary, 0, len(artists))
	for _, a := range artists {
		out = append(out, ArtistSummary{ID: a.ID, Name: a.Name})
	}
	return out, nil
}

// GetArtist returns the stored artist.
func (d *Directory) GetArtist(ctx context.Context, id int64) (*model.Artist, error) {
	a, err := d.artists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return nil, notFoundErr("GetArtist", err)
		}
		return nil, storeErr("GetArtist", err)
	}
	return a, nil
}

// ArtistDetail returns the artist with its past and upcoming shows.
func (d *Directory) ArtistDetail(ctx context.Context, id int64) (*ArtistDetail, error) {
	a, err := d.GetArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	shows, err := d.shows.ListByArtist(ctx, id)
	if err != nil {
		return nil, storeErr("ArtistDetail", err)
	}
	past, upcoming := PartitionShows(shows, d.now())

	if !a.SeekingVenues {
		a.SeekingDescription = nil
	}
	return &ArtistDetail{
		Artist:             *a,
		PastShows:          venueItems(past),
		UpcomingShows:      venueItems(upcoming),
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	}, nil
}

// SearchArtists finds artists whose name contains term, ignoring case.
func (d *Directory) SearchArtists(ctx context.Context, term string) (*SearchResult, error) {
	hits, err := d.artists.SearchByName(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, storeErr("SearchArtists", err)
	}
	return &SearchResult{Count: len(hits), Data: hits}, nil
}

// ListShows returns every show with both endpoints, ordered by start time.
func (d *Directory) ListShows(ctx context.Context) ([]ShowListing, error) {
	shows, err := d.shows.ListListings(ctx)
	if err != nil {
		return nil, storeErr("ListShows", err)
	}
	out := make([]ShowListing, 0, len(shows))
	for _, s := range shows {
		out = append(out, ShowListing{
			VenueID:         s.VenueID,
			VenueName:       s.VenueName,
			ArtistID:        s.ArtistID,
			ArtistName:      s.ArtistName,
			ArtistImageLink: s.ArtistImageLink,
			StartTime:       s.StartTime,
		})
	}
	return out, nil
}
