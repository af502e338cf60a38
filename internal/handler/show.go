package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-directory/internal/service"
)

// startTimeLayouts are tried in order. Layouts without a zone are UTC.
var startTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseStartTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ListShows handles GET /shows.
func (h *DirectoryHandler) ListShows(c echo.Context) error {
	items, err := h.Dir.ListShows(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateShow handles POST /shows.
func (h *DirectoryHandler) CreateShow(c echo.Context) error {
	var body struct {
		ArtistID  int64  `json:"artist_id" form:"artist_id"`
		VenueID   int64  `json:"venue_id" form:"venue_id"`
		StartTime string `json:"start_time" form:"start_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, ok := parseStartTime(body.StartTime)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "invalid start_time",
			"fields": echo.Map{"start_time": "must be RFC 3339 or YYYY-MM-DD HH:MM:SS"},
		})
	}
	id, err := h.Dir.CreateShow(c.Request().Context(), service.ShowInput{
		ArtistID:  body.ArtistID,
		VenueID:   body.VenueID,
		StartTime: start,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
