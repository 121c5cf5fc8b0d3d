package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/yachtclub/models"
	"github.com/padraicbc/yachtclub/store"
)

type raceFields struct {
	RaceNumber    *int    `json:"raceNumber" validate:"omitempty,min=1"`
	YachtClassID  *int64  `json:"yachtClassId" validate:"omitempty,min=1"`
	StartTime     *string `json:"startTime"`
	Course        *string `json:"course" validate:"omitempty,max=200"`
	WindSpeed     *string `json:"windSpeed" validate:"omitempty,max=50"`
	WindDirection *string `json:"windDirection" validate:"omitempty,max=50"`
	Status        *string `json:"status" validate:"omitempty,race_status"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
}

type createRaceRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	raceFields
}

type updateRaceRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	raceFields
}

func (f raceFields) apply(r *models.Race) ([]string, error) {
	var cols []string
	if f.RaceNumber != nil {
		r.RaceNumber = f.RaceNumber
		cols = append(cols, "race_number")
	}
	if f.YachtClassID != nil {
		r.YachtClassID = f.YachtClassID
		cols = append(cols, "yacht_class_id")
	}
	if f.StartTime != nil {
		t, err := parseOptionalTime("startTime", f.StartTime)
		if err != nil {
			return nil, err
		}
		r.StartTime = t
		cols = append(cols, "start_time")
	}
	if f.Course != nil {
		r.Course = f.Course
		cols = append(cols, "course")
	}
	if f.WindSpeed != nil {
		r.WindSpeed = f.WindSpeed
		cols = append(cols, "wind_speed")
	}
	if f.WindDirection != nil {
		r.WindDirection = f.WindDirection
		cols = append(cols, "wind_direction")
	}
	if f.Status != nil {
		r.Status = *f.Status
		cols = append(cols, "status")
	}
	if f.Notes != nil {
		r.Notes = f.Notes
		cols = append(cols, "notes")
	}
	return cols, nil
}

// ListRaces returns the races of an event. Races of an unpublished event are
// reported to non-staff callers like those of a missing one.
func (h *Handler) ListRaces(c echo.Context) error {
	eventID, err := pathID(c, "eventId")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if !isStaff(c) {
		published, err := h.store.EventPublished(ctx, eventID)
		if err != nil {
			return notFoundOr(err, "Event not found")
		}
		if !published {
			return echo.NewHTTPError(http.StatusNotFound, "Event not found")
		}
	}

	races, err := h.store.ListRaces(ctx, eventID)
	if err != nil {
		return notFoundOr(err, "Event not found")
	}
	return sendData(c, races)
}

// CreateRace adds a race to an event.
func (h *Handler) CreateRace(c echo.Context) error {
	eventID, err := pathID(c, "eventId")
	if err != nil {
		return err
	}
	var req createRaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	race := &models.Race{EventID: eventID, Name: req.Name}
	if _, err := req.raceFields.apply(race); err != nil {
		return err
	}

	if err := h.checkYachtClass(c, req.YachtClassID); err != nil {
		return err
	}

	if err := h.store.CreateRace(c.Request().Context(), race); err != nil {
		return notFoundOr(err, "Event not found")
	}
	return sendCreated(c, race, "Race created successfully")
}

func (h *Handler) checkYachtClass(c echo.Context, id *int64) error {
	if id == nil {
		return nil
	}
	exists, err := h.store.YachtClassExists(c.Request().Context(), *id)
	if err != nil {
		return err
	}
	if !exists {
		return echo.NewHTTPError(http.StatusBadRequest, "yachtClassId does not exist")
	}
	return nil
}

// GetRace returns a race with its results ordered by position.
func (h *Handler) GetRace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	race, err := h.store.GetRace(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err, "Race not found")
	}
	if race.Event != nil && !race.Event.Published && !isStaff(c) {
		return echo.NewHTTPError(http.StatusNotFound, "Race not found")
	}
	if race.Results == nil {
		race.Results = []*models.RaceResult{}
	}
	return sendData(c, race)
}

// UpdateRace changes the fields present in the request body.
func (h *Handler) UpdateRace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateRaceRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	race, err := h.store.GetRace(ctx, id)
	if err != nil {
		return notFoundOr(err, "Race not found")
	}

	var cols []string
	if req.Name != nil {
		race.Name = *req.Name
		cols = append(cols, "name")
	}
	more, err := req.raceFields.apply(race)
	if err != nil {
		return err
	}
	cols = append(cols, more...)

	if err := h.checkYachtClass(c, req.YachtClassID); err != nil {
		return err
	}

	if len(cols) > 0 {
		if err := h.store.UpdateRace(ctx, race, cols); err != nil {
			return notFoundOr(err, "Race not found")
		}
		if race, err = h.store.GetRace(ctx, id); err != nil {
			return notFoundOr(err, "Race not found")
		}
	}
	return respond(c, http.StatusOK, Success{Data: race, Message: "Race updated successfully"})
}

// DeleteRace removes a race and its results.
func (h *Handler) DeleteRace(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteRace(c.Request().Context(), id); err != nil {
		return notFoundOr(err, "Race not found")
	}
	return respond(c, http.StatusOK, Success{Message: "Race deleted successfully"})
}

// GetResults returns a race's results ordered by position. Results of a race
// under an unpublished event are hidden from non-staff callers.
func (h *Handler) GetResults(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if !isStaff(c) {
		published, err := h.store.RaceEventPublished(ctx, id)
		if err != nil {
			return notFoundOr(err, "Race not found")
		}
		if !published {
			return echo.NewHTTPError(http.StatusNotFound, "Race not found")
		}
	}

	results, err := h.store.ListResults(ctx, id)
	if err != nil {
		return notFoundOr(err, "Race not found")
	}
	return sendData(c, results)
}

type submitResultsRequest struct {
	Results []store.ResultInput `json:"results" validate:"dive"`
}

// SubmitResults replaces every result of a race with the submitted list.
// Validation happens before any write; the replacement is all-or-nothing.
func (h *Handler) SubmitResults(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req submitResultsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Results == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "results is required")
	}

	results, err := h.store.ReplaceResults(c.Request().Context(), id, req.Results)
	if err != nil {
		return notFoundOr(err, "Race not found")
	}
	return respond(c, http.StatusOK, Success{Data: results, Message: "Results submitted successfully"})
}
