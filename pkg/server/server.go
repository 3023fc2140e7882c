package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/localfs/localfs/pkg/binder"
	"github.com/localfs/localfs/pkg/config"
	"github.com/localfs/localfs/pkg/errcodes"
	"github.com/localfs/localfs/pkg/filesystem"
	"github.com/localfs/localfs/pkg/listing"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
)

// New builds the HTTP server for cfg. cfg must already be validated. Reveal
// requests from /open are handed to revealer.
func New(cfg *config.Config, revealer filesystem.Revealer) (*http.Server, error) {
	resolver, err := filesystem.NewResolver(cfg.RootDirectory)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())

	health.RegisterRoutes(e)

	filesystem.RegisterRoutes(e, resolver, revealer, listing.Render)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
