package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-directory/internal/service"
)

// ListArtists handles GET /artists.
func (h *DirectoryHandler) ListArtists(c echo.Context) error {
	items, err := h.Dir.ListArtists(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SearchArtists handles GET and POST /artists/search.
func (h *DirectoryHandler) SearchArtists(c echo.Context) error {
	res, err := h.Dir.SearchArtists(c.Request().Context(), c.FormValue("search_term"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetArtist handles GET /artists/:id.
func (h *DirectoryHandler) GetArtist(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	a, err := h.Dir.ArtistDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// CreateArtist handles POST /artists.
func (h *DirectoryHandler) CreateArtist(c echo.Context) error {
	var in service.ArtistInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id, err := h.Dir.CreateArtist(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateArtist handles PUT /artists/:id.
func (h *DirectoryHandler) UpdateArtist(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var in service.ArtistInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	if err := h.Dir.UpdateArtist(ctx, id, in); err != nil {
		return writeError(c, err)
	}
	a, err := h.Dir.GetArtist(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// DeleteArtist handles DELETE /artists/:id.
func (h *DirectoryHandler) DeleteArtist(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Dir.DeleteArtist(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
