// Package web serves the club's public pages from an embedded directory.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed all:static
var embeddedFiles embed.FS

// Register serves static assets and falls back to index.html for any other
// non-API path so client-side routing works.
func Register(e *echo.Echo) error {
	// Strip the "static/" prefix so URLs work correctly
	subFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return err
	}
	fileServer := http.FileServer(http.FS(subFS))

	notFound := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Route not found")
	}
	e.RouteNotFound("/*", notFound)

	e.GET("/*", func(c echo.Context) error {
		path := c.Request().URL.Path
		if strings.HasPrefix(path, "/api/") {
			return notFound(c)
		}

		// If request is for a static file, serve it
		if strings.Contains(path, ".") {
			fileServer.ServeHTTP(c.Response(), c.Request())
			return nil
		}

		indexFile, err := subFS.Open("index.html")
		if err != nil {
			return c.NoContent(http.StatusNotFound)
		}
		defer indexFile.Close()

		return c.Stream(http.StatusOK, "text/html; charset=utf-8", indexFile)
	})
	return nil
}
