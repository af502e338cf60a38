package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-directory/internal/service"
)

// ListVenues handles GET /venues: all venues grouped by city.
func (h *DirectoryHandler) ListVenues(c echo.Context) error {
	areas, err := h.Dir.ListVenueAreas(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": areas})
}

// SearchVenues handles GET and POST /venues/search. The term is read from
// search_term in the query string or the form body.
func (h *DirectoryHandler) SearchVenues(c echo.Context) error {
	res, err := h.Dir.SearchVenues(c.Request().Context(), c.FormValue("search_term"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetVenue handles GET /venues/:id.
func (h *DirectoryHandler) GetVenue(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	v, err := h.Dir.VenueDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// CreateVenue handles POST /venues and answers 201 with the new id.
func (h *DirectoryHandler) CreateVenue(c echo.Context) error {
	var in service.VenueInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	id, err := h.Dir.CreateVenue(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateVenue handles PUT /venues/:id, replacing every field.
func (h *DirectoryHandler) UpdateVenue(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var in service.VenueInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	if err := h.Dir.UpdateVenue(ctx, id, in); err != nil {
		return writeError(c, err)
	}
	v, err := h.Dir.GetVenue(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

// DeleteVenue handles DELETE /venues/:id. Venues with shows answer 409.
func (h *DirectoryHandler) DeleteVenue(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Dir.DeleteVenue(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
