package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padraicbc/yachtclub/db/dbtest"
	"github.com/padraicbc/yachtclub/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(dbtest.Open(t))
}

func seedEvent(t *testing.T, s *Store, published bool) *models.Event {
	t.Helper()
	e := &models.Event{
		Title:     "Summer Regatta",
		EventType: "regatta",
		StartDate: time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC),
		Published: published,
	}
	require.NoError(t, s.CreateEvent(context.Background(), e))
	return e
}

func seedRace(t *testing.T, s *Store, eventID int64) *models.Race {
	t.Helper()
	r := &models.Race{EventID: eventID, Name: "Race 1"}
	require.NoError(t, s.CreateRace(context.Background(), r))
	return r
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestPageNormalize(t *testing.T) {
	require.Equal(t, Page{Page: 1, Limit: 10}, Page{}.Normalize())
	require.Equal(t, Page{Page: 3, Limit: 100}, Page{Page: 3, Limit: 500}.Normalize())
	require.Equal(t, 40, Page{Page: 3, Limit: 20}.Offset())
}
