package filesystem

import (
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/localfs/localfs/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Revealer shows a path in the host's file manager without blocking.
type Revealer interface {
	Reveal(path string)
}

// RenderFunc turns a directory listing into an HTML page.
type RenderFunc func(entries []Entry, subPath, root string) string

type handler struct {
	resolver          *Resolver
	filesystemService *Service
	revealer          Revealer
	render            RenderFunc
}

// serve answers GET / and GET /<subpath> with the file's bytes or the
// directory's rendered listing.
func (h *handler) serve(c echo.Context) error {
	subPath := strings.TrimPrefix(c.Request().URL.Path, "/")

	resolved, err := h.resolve(subPath)
	if err != nil {
		return err
	}

	switch resolved.Kind {
	case KindDirectory:
		listing, err := h.filesystemService.List(resolved)
		if err != nil {
			return mapError(err)
		}
		page := h.render(listing.Entries, listing.SubPath, h.resolver.Root())
		return errors.WithStack(c.HTML(http.StatusOK, page))
	default:
		c.Response().Header().Set(echo.HeaderContentType, contentType(resolved.Path))
		return errors.WithStack(c.File(resolved.Path))
	}
}

// open schedules the target to be revealed in the file manager. The response
// is sent as soon as the task is scheduled; the outcome is only logged.
func (h *handler) open(c echo.Context) error {
	params := OpenQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	resolved, err := h.resolve(params.Path)
	if err != nil {
		return err
	}

	log := logger.FromContext(c.Request().Context())
	log.Info("revealing path", logger.Data{
		"path": resolved.SubPath,
		"kind": resolved.Kind.String(),
	})
	h.revealer.Reveal(resolved.Path)

	return errors.WithStack(c.String(http.StatusOK, OpenResponse))
}

func (h *handler) browse(c echo.Context) error {
	// Bind query params.
	params := BrowseQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	resp, err := h.filesystemService.Browse(BrowseOptions(params))
	if err != nil {
		return mapError(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// resolve maps subPath onto the root and requires it to exist.
func (h *handler) resolve(subPath string) (*Resolved, error) {
	resolved, err := h.resolver.Resolve(subPath)
	if err != nil {
		return nil, mapError(err)
	}
	if resolved.Kind == KindAbsent {
		return nil, errcodes.NotFound("Path")
	}
	return resolved, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrOutsideRoot):
		return errcodes.OutsideRoot()
	case errors.Is(err, ErrNotDirectory):
		return errcodes.NotFound("Path")
	case errors.Is(err, fs.ErrPermission):
		return errcodes.Forbidden("Access to this path")
	}
	return errors.WithStack(err)
}

// contentType guesses from the extension first and falls back to sniffing the
// file's leading bytes.
func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return echo.MIMEOctetStream
	}
	return mtype.String()
}
