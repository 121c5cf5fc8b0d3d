package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/yachtclub/identity"
	mw "github.com/padraicbc/yachtclub/middleware"
)

// Register mounts the API under /api on e.
func (h *Handler) Register(e *echo.Echo) {
	auth := mw.JWT(h.ids)
	optional := mw.OptionalJWT(h.ids)
	staff := mw.RequireRole(identity.RoleAdmin, identity.RoleCommodore)
	admin := mw.RequireRole(identity.RoleAdmin)

	api := e.Group("/api")
	api.GET("/health", h.Health)

	a := api.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout, auth)
	a.GET("/me", h.Me, auth)
	a.POST("/refresh", h.Refresh, auth)

	ev := api.Group("/events")
	ev.GET("", h.ListEvents, optional)
	ev.GET("/:id", h.GetEvent, optional)
	ev.POST("", h.CreateEvent, auth, staff)
	ev.PUT("/:id", h.UpdateEvent, auth, staff)
	ev.DELETE("/:id", h.DeleteEvent, auth, admin)
	ev.POST("/:id/entries", h.CreateEntry)
	ev.DELETE("/:id/entries/:entryId", h.DeleteEntry, auth, staff)

	r := api.Group("/races")
	r.GET("/events/:eventId", h.ListRaces)
	r.POST("/events/:eventId", h.CreateRace, auth, staff)
	r.GET("/:id", h.GetRace)
	r.PUT("/:id", h.UpdateRace, auth, staff)
	r.DELETE("/:id", h.DeleteRace, auth, admin)
	r.GET("/:id/results", h.GetResults)
	r.POST("/:id/results", h.SubmitResults, auth, staff)

	yc := api.Group("/yacht-classes")
	yc.GET("", h.YachtClasses)
	yc.POST("", h.CreateYachtClass, auth, admin)

	s := api.Group("/stories")
	s.GET("", h.ListStories, optional)
	s.GET("/:id", h.GetStory, optional)
	s.POST("", h.CreateStory, auth, staff)
	s.PUT("/:id", h.UpdateStory, auth, staff)
	s.DELETE("/:id", h.DeleteStory, auth, admin)

	u := api.Group("/upload")
	u.POST("", h.Upload, auth, staff)
	u.POST("/events/:id/documents", h.UploadEventDocuments, auth, staff)
	u.GET("/files/:filename", h.ServeFile)

	api.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Route not found")
	})
}

// Health reports whether the database answers.
func (h *Handler) Health(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		h.log.Error("health check", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Database unavailable")
	}
	return sendData(c, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}
