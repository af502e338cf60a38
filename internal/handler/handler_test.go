package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-directory/internal/database"
	"github.com/iliyamo/venue-directory/internal/middleware"
	"github.com/iliyamo/venue-directory/internal/service"
)

var clock = time.Date(2030, 1, 1, 18, 0, 0, 0, time.UTC)

// newServer routes a directory backed by a fresh SQLite file the same way
// the server does, minus rate limiting.
func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.SQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "http.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger, _ := logtest.NewNullLogger()
	_, err = database.NewMigrator(db, database.SQLite, logger).Up(ctx, 0)
	require.NoError(t, err)

	dir := service.NewDirectory(db, logger, nil)
	dir.Now = func() time.Time { return clock }

	e := echo.New()
	e.Use(middleware.RequestLogger(logger))
	h := NewDirectoryHandler(dir)
	e.GET("/healthz", h.Health)
	e.GET("/venues", h.ListVenues)
	e.GET("/venues/search", h.SearchVenues)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/:id", h.GetVenue)
	e.POST("/venues", h.CreateVenue)
	e.PUT("/venues/:id", h.UpdateVenue)
	e.DELETE("/venues/:id", h.DeleteVenue)
	e.GET("/artists", h.ListArtists)
	e.GET("/artists/search", h.SearchArtists)
	e.GET("/artists/:id", h.GetArtist)
	e.POST("/artists", h.CreateArtist)
	e.PUT("/artists/:id", h.UpdateArtist)
	e.DELETE("/artists/:id", h.DeleteArtist)
	e.GET("/shows", h.ListShows)
	e.POST("/shows", h.CreateShow)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func create(t *testing.T, e *echo.Echo, target, body string) int64 {
	t.Helper()
	rec := do(e, http.MethodPost, target, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &out)
	require.Positive(t, out.ID)
	return out.ID
}

func TestHealth(t *testing.T) {
	e := newServer(t)
	rec := do(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestVenueLifecycle(t *testing.T) {
	e := newServer(t)

	id := create(t, e, "/venues", `{"name":"The Musical Hop","city":"San Francisco","state":"CA","genres":["Jazz","Reggae","jazz"],"seeking_talent":true,"seeking_description":"We are on the lookout"}`)

	rec := do(e, http.MethodGet, "/venues/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail service.VenueDetail
	decode(t, rec, &detail)
	assert.Equal(t, "The Musical Hop", detail.Name)
	assert.Equal(t, []string{"Jazz", "Reggae"}, []string(detail.Genres))
	require.NotNil(t, detail.SeekingDescription)
	assert.Equal(t, 0, detail.PastShowsCount)
	assert.NotNil(t, detail.PastShows)

	rec = do(e, http.MethodPut, "/venues/"+itoa(id), `{"name":"The Musical Hop","city":"Oakland","state":"CA"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"city":"Oakland"`)

	rec = do(e, http.MethodGet, "/venues", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []service.VenueArea `json:"items"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Oakland", list.Items[0].City)

	rec = do(e, http.MethodDelete, "/venues/"+itoa(id), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodDelete, "/venues/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodGet, "/venues/"+itoa(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadRequests(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/venues/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(e, http.MethodDelete, "/artists/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/venues", `{"name":"","city":"X","state":"Y"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, rec, &body)
	assert.Contains(t, body.Fields, "name")

	rec = do(e, http.MethodPost, "/venues", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/shows", `{"artist_id":1,"venue_id":1,"start_time":"next tuesday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "start_time")
}

func TestShowsAndConflicts(t *testing.T) {
	e := newServer(t)

	venueID := create(t, e, "/venues", `{"name":"The Dueling Pianos Bar","city":"New York","state":"NY"}`)
	artistID := create(t, e, "/artists", `{"name":"Guns N Petals","image_link":"https://img.example.com/gnp.jpg"}`)

	rec := do(e, http.MethodPost, "/shows", `{"artist_id":`+itoa(artistID)+`,"venue_id":999,"start_time":"2030-05-21T21:30:00Z"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "venue_id")

	create(t, e, "/shows", `{"artist_id":`+itoa(artistID)+`,"venue_id":`+itoa(venueID)+`,"start_time":"2030-05-21 21:30:00"}`)
	create(t, e, "/shows", `{"artist_id":`+itoa(artistID)+`,"venue_id":`+itoa(venueID)+`,"start_time":"2019-05-21T21:30:00Z"}`)

	rec = do(e, http.MethodGet, "/artists/"+itoa(artistID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail service.ArtistDetail
	decode(t, rec, &detail)
	assert.Equal(t, 1, detail.PastShowsCount)
	assert.Equal(t, 1, detail.UpcomingShowsCount)
	assert.Equal(t, "The Dueling Pianos Bar", detail.UpcomingShows[0].Name)

	rec = do(e, http.MethodGet, "/shows", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var shows struct {
		Items []service.ShowListing `json:"items"`
	}
	decode(t, rec, &shows)
	require.Len(t, shows.Items, 2)
	assert.True(t, shows.Items[0].StartTime.Before(shows.Items[1].StartTime))
	assert.Equal(t, "Guns N Petals", shows.Items[0].ArtistName)

	rec = do(e, http.MethodDelete, "/venues/"+itoa(venueID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(e, http.MethodDelete, "/artists/"+itoa(artistID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSearchFromQueryAndForm(t *testing.T) {
	e := newServer(t)
	create(t, e, "/venues", `{"name":"The Musical Hop","city":"San Francisco","state":"CA"}`)
	create(t, e, "/venues", `{"name":"Park Square Live Music & Coffee","city":"San Francisco","state":"CA"}`)
	create(t, e, "/artists", `{"name":"Matt Quevedo"}`)

	rec := do(e, http.MethodGet, "/venues/search?search_term=hop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res service.SearchResult
	decode(t, rec, &res)
	assert.Equal(t, 1, res.Count)

	form := url.Values{"search_term": {"Music"}}
	req := httptest.NewRequest(http.MethodPost, "/venues/search", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &res)
	assert.Equal(t, 2, res.Count)

	rec = do(e, http.MethodGet, "/artists/search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &res)
	assert.Equal(t, 1, res.Count)

	rec = do(e, http.MethodGet, "/artists", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Matt Quevedo")
}

func TestParseStartTime(t *testing.T) {
	for _, s := range []string{"2030-05-21T21:30:00Z", "2030-05-21T23:30:00+02:00", "2030-05-21 21:30:00", "2030-05-21T21:30:00", " 2030-05-21 21:30 "} {
		got, ok := parseStartTime(s)
		require.True(t, ok, s)
		assert.True(t, got.Equal(time.Date(2030, 5, 21, 21, 30, 0, 0, time.UTC)), s)
	}
	_, ok := parseStartTime("21/05/2030")
	assert.False(t, ok)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
