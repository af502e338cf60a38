// Package router registers the HTTP routes of the directory.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-directory/internal/handler"
)

// RegisterRoutes maps every endpoint onto e. Reads are open; writes pass
// through limit, which may be a no-op middleware.
func RegisterRoutes(e *echo.Echo, h *handler.DirectoryHandler, limit echo.MiddlewareFunc) {
	// liveness for load balancers
	e.GET("/healthz", h.Health)

	e.GET("/venues", h.ListVenues)
	e.GET("/venues/search", h.SearchVenues)
	e.POST("/venues/search", h.SearchVenues)
	e.GET("/venues/:id", h.GetVenue)

	e.GET("/artists", h.ListArtists)
	e.GET("/artists/search", h.SearchArtists)
	e.POST("/artists/search", h.SearchArtists)
	e.GET("/artists/:id", h.GetArtist)

	e.GET("/shows", h.ListShows)

	e.POST("/venues", h.CreateVenue, limit)
	e.PUT("/venues/:id", h.UpdateVenue, limit)
	e.DELETE("/venues/:id", h.DeleteVenue, limit)
	e.POST("/artists", h.CreateArtist, limit)
	e.PUT("/artists/:id", h.UpdateArtist, limit)
	e.DELETE("/artists/:id", h.DeleteArtist, limit)
	e.POST("/shows", h.CreateShow, limit)
}
