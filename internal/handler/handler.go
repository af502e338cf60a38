// Package handler exposes the directory over HTTP. Handlers decode the
// request, call the service and encode its views as JSON.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-directory/internal/middleware"
	"github.com/iliyamo/venue-directory/internal/service"
)

// DirectoryHandler serves venues, artists and shows.
type DirectoryHandler struct {
	Dir *service.Directory
}

// NewDirectoryHandler panics if dir is nil.
func NewDirectoryHandler(dir *service.Directory) *DirectoryHandler {
	if dir == nil {
		panic("nil directory passed to NewDirectoryHandler")
	}
	return &DirectoryHandler{Dir: dir}
}

// parseID reads the :id path parameter. Non-numeric or non-positive ids
// never reach the store.
func parseID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
}

// writeError maps a service error kind to a status code. Store failures
// are logged and reported without detail.
func writeError(c echo.Context, err error) error {
	switch service.KindOf(err) {
	case service.KindValidation:
		body := echo.Map{"error": err.Error()}
		var fields validation.Errors
		if errors.As(err, &fields) {
			body["fields"] = fields
		} else {
			var se *service.Error
			if errors.As(err, &se) && se.Field != "" {
				body["fields"] = echo.Map{se.Field: se.Err.Error()}
			}
		}
		return c.JSON(http.StatusBadRequest, body)
	case service.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case service.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "still referenced by shows"})
	}
	middleware.Logger(c).WithError(err).Error("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
