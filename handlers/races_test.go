package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/yachtclub/models"
	"github.com/padraicbc/yachtclub/store"
)

func (s *testServer) seedRace(t *testing.T, eventID int64, name string) *models.Race {
	t.Helper()
	r := &models.Race{EventID: eventID, Name: name}
	require.NoError(t, s.store.CreateRace(context.Background(), r))
	return r
}

func TestCreateRace(t *testing.T) {
	s := newTestServer(t)
	event := s.seedEvent(t, "Spring Series", true)
	path := fmt.Sprintf("/api/races/events/%d", event.ID)

	rec, env := s.do(t, http.MethodPost, path, map[string]interface{}{"name": "Race 1", "raceNumber": 1}, s.commodore)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var race models.Race
	env.decode(t, &race)
	assert.Equal(t, "scheduled", race.Status)
	assert.Equal(t, event.ID, race.EventID)

	rec, env = s.do(t, http.MethodPost, path, map[string]interface{}{"name": "Race 2", "yachtClassId": 42}, s.commodore)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "yachtClassId does not exist", env.Error)

	rec, env = s.do(t, http.MethodPost, path, map[string]interface{}{"name": "Race 2", "status": "abandoned"}, s.commodore)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "status must be one of")

	rec, _ = s.do(t, http.MethodPost, "/api/races/events/999", map[string]interface{}{"name": "Race 1"}, s.commodore)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var races []models.Race
	env.decode(t, &races)
	assert.Len(t, races, 1)
}

func TestSubmitResults(t *testing.T) {
	s := newTestServer(t)
	race := s.seedRace(t, s.seedEvent(t, "Wednesday Evening", true).ID, "Race 4")
	path := fmt.Sprintf("/api/races/%d/results", race.ID)

	body := map[string]interface{}{"results": []map[string]interface{}{
		{"sailNumber": "IRL 101", "boatName": "Kestrel", "finishTime": "19:42:10"},
		{"sailNumber": "IRL 202", "dnf": true},
	}}
	rec, env := s.do(t, http.MethodPost, path, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = s.do(t, http.MethodPost, path, body, s.commodore)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Results submitted successfully", env.Message)

	var results []models.RaceResult
	env.decode(t, &results)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Position)
	assert.Equal(t, "IRL 101", results[0].SailNumber)
	assert.Equal(t, 2, results[1].Position)
	assert.True(t, results[1].DNF)

	rec, env = s.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env.decode(t, &results)
	require.Len(t, results, 2)
	assert.Equal(t, "IRL 202", results[1].SailNumber)

	rec, env = s.do(t, http.MethodGet, fmt.Sprintf("/api/races/%d", race.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var full models.Race
	env.decode(t, &full)
	assert.Len(t, full.Results, 2)
}

func TestSubmitResultsValidation(t *testing.T) {
	s := newTestServer(t)
	race := s.seedRace(t, s.seedEvent(t, "Wednesday Evening", true).ID, "Race 5")
	path := fmt.Sprintf("/api/races/%d/results", race.ID)

	rec, _ := s.do(t, http.MethodPost, path, map[string]interface{}{"results": []map[string]interface{}{
		{"sailNumber": "IRL 7"},
	}}, s.admin)
	require.Equal(t, http.StatusOK, rec.Code)

	tests := []struct {
		name  string
		body  interface{}
		error string
	}{
		{"missing list", map[string]interface{}{}, "results is required"},
		{"missing sail number", map[string]interface{}{"results": []map[string]interface{}{
			{"sailNumber": "IRL 1"}, {"boatName": "Nameless"},
		}}, "results[1].sailNumber is required"},
		{"sail number too long", map[string]interface{}{"results": []map[string]interface{}{
			{"sailNumber": "123456789012345678901"},
		}}, "results[0].sailNumber must be at most 20 characters"},
		{"negative position", map[string]interface{}{"results": []map[string]interface{}{
			{"sailNumber": "IRL 1", "position": -1},
		}}, "results[0].position must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, path, tt.body, s.admin)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.error, env.Error)
		})
	}

	// Rejected submissions leave the stored results alone.
	_, env := s.do(t, http.MethodGet, path, nil, "")
	var results []models.RaceResult
	env.decode(t, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "IRL 7", results[0].SailNumber)

	rec, env = s.do(t, http.MethodPost, "/api/races/999/results", map[string]interface{}{"results": []interface{}{}}, s.admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Race not found", env.Error)

	rec, env = s.do(t, http.MethodGet, "/api/races/999/results", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Race not found", env.Error)
}

func TestDeleteRace(t *testing.T) {
	s := newTestServer(t)
	race := s.seedRace(t, s.seedEvent(t, "Frostbite", true).ID, "Race 1")
	path := fmt.Sprintf("/api/races/%d", race.ID)

	rec, _ := s.do(t, http.MethodDelete, path, nil, s.commodore)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, path, nil, s.admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Race not found", env.Error)
}

func TestYachtClasses(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"name": "ILCA 7", "handicap": 1100}

	rec, _ := s.do(t, http.MethodPost, "/api/yacht-classes", body, s.commodore)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/yacht-classes", body, s.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env := s.do(t, http.MethodPost, "/api/yacht-classes", body, s.admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Yacht class already exists", env.Error)

	_, env = s.do(t, http.MethodGet, "/api/yacht-classes", nil, "")
	var classes []models.YachtClass
	env.decode(t, &classes)
	require.Len(t, classes, 1)
	assert.Equal(t, "ILCA 7", classes[0].Name)
}

func TestRaceVisibility(t *testing.T) {
	s := newTestServer(t)
	draft := s.seedEvent(t, "Secret Draft Regatta", false)
	race := s.seedRace(t, draft.ID, "Race 1")
	_, err := s.store.ReplaceResults(context.Background(), race.ID, []store.ResultInput{{SailNumber: "IRL 1"}})
	require.NoError(t, err)

	pairs := []struct {
		hidden, missing string
	}{
		{fmt.Sprintf("/api/races/events/%d", draft.ID), "/api/races/events/999"},
		{fmt.Sprintf("/api/races/%d", race.ID), "/api/races/999"},
		{fmt.Sprintf("/api/races/%d/results", race.ID), "/api/races/999/results"},
	}
	for _, p := range pairs {
		t.Run(p.hidden, func(t *testing.T) {
			missing := notFoundBody(t, s, p.missing, "")
			assert.Equal(t, missing, notFoundBody(t, s, p.hidden, ""))
			assert.NotContains(t, missing, "Secret Draft Regatta")

			rec, _ := s.do(t, http.MethodGet, p.hidden, nil, s.commodore)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	rec, env := s.do(t, http.MethodGet, fmt.Sprintf("/api/races/%d", race.ID), nil, s.admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var full models.Race
	env.decode(t, &full)
	require.NotNil(t, full.Event)
	assert.Equal(t, "Secret Draft Regatta", full.Event.Title)
	assert.Len(t, full.Results, 1)
}
