package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/yachtclub/identity"
	mw "github.com/padraicbc/yachtclub/middleware"
	"github.com/padraicbc/yachtclub/models"
	"github.com/padraicbc/yachtclub/store"
)

// eventFields are the optional attributes shared by create and update.
type eventFields struct {
	Description          *string  `json:"description" validate:"omitempty,max=5000"`
	EndDate              *string  `json:"endDate"`
	Location             *string  `json:"location" validate:"omitempty,max=200"`
	RegistrationDeadline *string  `json:"registrationDeadline"`
	MaxParticipants      *int     `json:"maxParticipants" validate:"omitempty,min=1"`
	EntryFee             *float64 `json:"entryFee" validate:"omitempty,min=0"`
	Published            *bool    `json:"published"`
}

type createEventRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	EventType string `json:"eventType" validate:"required,event_type"`
	StartDate string `json:"startDate" validate:"required"`
	eventFields
}

type updateEventRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	EventType *string `json:"eventType" validate:"omitempty,event_type"`
	StartDate *string `json:"startDate"`
	eventFields
}

// apply copies the set fields onto e and returns the changed columns.
func (f eventFields) apply(e *models.Event) ([]string, error) {
	var cols []string
	if f.Description != nil {
		e.Description = f.Description
		cols = append(cols, "description")
	}
	if f.EndDate != nil {
		t, err := parseOptionalTime("endDate", f.EndDate)
		if err != nil {
			return nil, err
		}
		e.EndDate = t
		cols = append(cols, "end_date")
	}
	if f.Location != nil {
		e.Location = f.Location
		cols = append(cols, "location")
	}
	if f.RegistrationDeadline != nil {
		t, err := parseOptionalTime("registrationDeadline", f.RegistrationDeadline)
		if err != nil {
			return nil, err
		}
		e.RegistrationDeadline = t
		cols = append(cols, "registration_deadline")
	}
	if f.MaxParticipants != nil {
		e.MaxParticipants = f.MaxParticipants
		cols = append(cols, "max_participants")
	}
	if f.EntryFee != nil {
		e.EntryFee = f.EntryFee
		cols = append(cols, "entry_fee")
	}
	if f.Published != nil {
		e.Published = *f.Published
		cols = append(cols, "published")
	}
	return cols, nil
}

func checkEventDates(e *models.Event) error {
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return echo.NewHTTPError(http.StatusBadRequest, "endDate must not be before startDate")
	}
	return nil
}

// isStaff reports whether the caller may see unpublished content.
func isStaff(c echo.Context) bool {
	user, _ := mw.UserFrom(c)
	return identity.Allowed(user, identity.RoleAdmin, identity.RoleCommodore)
}

// ListEvents returns a page of events. Anonymous and member callers only see
// published events.
func (h *Handler) ListEvents(c echo.Context) error {
	startDate, err := parseOptionalQueryTime(c, "startDate")
	if err != nil {
		return err
	}
	endDate, err := parseOptionalQueryTime(c, "endDate")
	if err != nil {
		return err
	}
	// A plain date covers the whole day.
	var endBefore *time.Time
	if endDate != nil && isDateOnly(c.QueryParam("endDate")) {
		next := endDate.Add(24 * time.Hour)
		endBefore, endDate = &next, nil
	}
	published, err := boolQuery(c, "published")
	if err != nil {
		return err
	}
	if !isStaff(c) {
		t := true
		published = &t
	}

	page := pageFrom(c)
	events, total, err := h.store.ListEvents(c.Request().Context(), store.EventFilter{
		EventType: c.QueryParam("eventType"),
		StartDate: startDate,
		EndDate:   endDate,
		EndBefore: endBefore,
		Published: published,
		Page:      page,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, Success{
		Data:       events,
		Pagination: NewPagination(page.Page, page.Limit, total),
	})
}

func parseOptionalQueryTime(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	return parseOptionalTime(name, &v)
}

// GetEvent returns one event with its races and documents.
func (h *Handler) GetEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	event, err := h.store.GetEvent(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, "Event not found")
	}
	if !event.Published && !isStaff(c) {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}
	return sendData(c, event)
}

// CreateEvent inserts a new event.
func (h *Handler) CreateEvent(c echo.Context) error {
	var req createEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	start, err := parseTime("startDate", req.StartDate)
	if err != nil {
		return err
	}
	event := &models.Event{Title: req.Title, EventType: req.EventType, StartDate: start}
	if _, err := req.eventFields.apply(event); err != nil {
		return err
	}
	if err := checkEventDates(event); err != nil {
		return err
	}

	if err := h.store.CreateEvent(c.Request().Context(), event); err != nil {
		return err
	}
	return sendCreated(c, event, "Event created successfully")
}

// UpdateEvent changes the fields present in the request body.
func (h *Handler) UpdateEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateEventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	event, err := h.store.GetEvent(ctx, id)
	if err != nil {
		return notFoundOr(err, "Event not found")
	}

	var cols []string
	if req.Title != nil {
		event.Title = *req.Title
		cols = append(cols, "title")
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
		cols = append(cols, "event_type")
	}
	if req.StartDate != nil {
		start, err := parseTime("startDate", *req.StartDate)
		if err != nil {
			return err
		}
		event.StartDate = start
		cols = append(cols, "start_date")
	}
	more, err := req.eventFields.apply(event)
	if err != nil {
		return err
	}
	cols = append(cols, more...)
	if err := checkEventDates(event); err != nil {
		return err
	}

	if len(cols) > 0 {
		if err := h.store.UpdateEvent(ctx, event, cols); err != nil {
			return notFoundOr(err, "Event not found")
		}
	}
	return respond(c, http.StatusOK, Success{Data: event, Message: "Event updated successfully"})
}

// DeleteEvent removes an event with its races, results and documents.
func (h *Handler) DeleteEvent(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	docs, err := h.store.DeleteEvent(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, "Event not found")
	}

	for _, d := range docs {
		path := filepath.Join(h.uploadDir, filepath.Base(d.Filename))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.log.Warn("remove event document", zap.String("file", path), zap.Error(err))
		}
	}
	return respond(c, http.StatusOK, Success{Message: "Event deleted successfully"})
}

type entryRequest struct {
	BoatName    string  `json:"boatName" validate:"required,max=100"`
	SailNumber  string  `json:"sailNumber" validate:"required,max=20"`
	SkipperName string  `json:"skipperName" validate:"required,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	YachtClass  *string `json:"yachtClass" validate:"omitempty,max=50"`
	CrewCount   *int    `json:"crewCount" validate:"omitempty,min=0"`
}

// CreateEntry acknowledges a boat entry for an event. Entries have no table
// yet, so nothing is stored.
func (h *Handler) CreateEntry(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req entryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	exists, err := h.store.EventExists(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !exists {
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	}

	h.log.Warn("boat entry acknowledged but not persisted",
		zap.Int64("event_id", id), zap.String("sail_number", req.SailNumber))
	return sendCreated(c, req, "Entry submitted successfully")
}

// DeleteEntry acknowledges removal of a boat entry.
func (h *Handler) DeleteEntry(c echo.Context) error {
	if _, err := pathID(c, "id"); err != nil {
		return err
	}
	if _, err := pathID(c, "entryId"); err != nil {
		return err
	}
	return respond(c, http.StatusOK, Success{Message: "Entry removed successfully"})
}
