package filesystem

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the open action, the JSON browse API and the
// catch-all file server. The named routes shadow root entries with the same
// names.
func RegisterRoutes(e *echo.Echo, resolver *Resolver, revealer Revealer, render RenderFunc) {
	filesystemService := NewService(resolver)

	h := &handler{
		resolver:          resolver,
		filesystemService: filesystemService,
		revealer:          revealer,
		render:            render,
	}

	e.GET("/open", h.open)
	e.GET("/api/browse", h.browse)
	e.GET("/", h.serve)
	e.GET("/*", h.serve)
}
