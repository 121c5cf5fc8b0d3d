package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Envelope is the body of every JSON response: either Success or Failure.
type Envelope interface {
	json.Marshaler
	envelope()
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Success carries a payload and an optional message.
type Success struct {
	Data       interface{}
	Message    string
	Pagination *Pagination
}

// Failure carries a human-readable error.
type Failure struct {
	Error string
}

func (Success) envelope() {}
func (Failure) envelope() {}

// MarshalJSON implements json.Marshaler.
func (s Success) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Success    bool        `json:"success"`
		Data       interface{} `json:"data,omitempty"`
		Message    string      `json:"message,omitempty"`
		Pagination *Pagination `json:"pagination,omitempty"`
	}{true, s.Data, s.Message, s.Pagination})
}

// MarshalJSON implements json.Marshaler.
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, f.Error})
}

func respond(c echo.Context, status int, env Envelope) error {
	return c.JSON(status, env)
}

func sendData(c echo.Context, data interface{}) error {
	return respond(c, http.StatusOK, Success{Data: data})
}

func sendCreated(c echo.Context, data interface{}, msg string) error {
	return respond(c, http.StatusCreated, Success{Data: data, Message: msg})
}

// ErrorHandler renders every error as a Failure envelope. An *echo.HTTPError
// keeps its status and message; anything else is logged and reported as a
// generic 500 so driver details never reach the client.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		}

		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.Error(err),
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = respond(c, status, Failure{Error: msg})
		}
		if err != nil {
			log.Error("write error response", zap.Error(err))
		}
	}
}
