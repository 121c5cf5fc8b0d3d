package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/padraicbc/yachtclub/middleware"
)

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      interface{} `json:"user"`
}

// Login validates credentials and returns a token valid for 24 hours.
func (h *Handler) Login(c echo.Context) error {
	var creds credentials
	if err := bind(c, &creds); err != nil {
		return err
	}

	user, ok := h.ids.Authenticate(creds.Username, creds.Password)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, expiresAt, err := h.ids.IssueToken(*user)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, Success{
		Data:    tokenResponse{Token: token, ExpiresAt: expiresAt, User: user},
		Message: "Login successful",
	})
}

// Logout acknowledges the request. Tokens are stateless, the client drops it.
func (h *Handler) Logout(c echo.Context) error {
	return respond(c, http.StatusOK, Success{Message: "Logout successful"})
}

// Me returns the caller's profile.
func (h *Handler) Me(c echo.Context) error {
	user, ok := mw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
	}
	return respond(c, http.StatusOK, Success{Data: user})
}

// Refresh issues a new token for the caller.
func (h *Handler) Refresh(c echo.Context) error {
	user, ok := mw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
	}

	token, expiresAt, err := h.ids.IssueToken(*user)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, Success{
		Data:    tokenResponse{Token: token, ExpiresAt: expiresAt, User: user},
		Message: "Token refreshed",
	})
}
