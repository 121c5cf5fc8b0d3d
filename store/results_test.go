package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/yachtclub/models"
)

func sailNumbers(rows []*models.RaceResult) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.SailNumber
	}
	return out
}

type resultRow struct {
	ID       int64
	Sail     string
	Boat     string
	Position int
}

func snapshot(rows []*models.RaceResult) []resultRow {
	out := make([]resultRow, len(rows))
	for i, r := range rows {
		out[i] = resultRow{ID: r.ID, Sail: r.SailNumber, Position: r.Position}
		if r.BoatName != nil {
			out[i].Boat = *r.BoatName
		}
	}
	return out
}

func positions(rows []*models.RaceResult) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Position
	}
	return out
}

func TestReplaceResultsAssignsPositionsFromOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	race := seedRace(t, s, seedEvent(t, s, true).ID)

	rows, err := s.ReplaceResults(ctx, race.ID, []ResultInput{{SailNumber: "A"}, {SailNumber: "B"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, sailNumbers(rows))
	assert.Equal(t, []int{1, 2}, positions(rows))

	stored, err := s.ListResults(ctx, race.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, sailNumbers(stored))
	assert.Equal(t, []int{1, 2}, positions(stored))
	for _, r := range stored {
		assert.False(t, r.Disqualified || r.DNS || r.DNF || r.Retired)
	}
}

func TestReplaceResultsExplicitPositions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	race := seedRace(t, s, seedEvent(t, s, true).ID)

	rows, err := s.ReplaceResults(ctx, race.ID, []ResultInput{
		{SailNumber: "SLOW", Position: intPtr(3)},
		{SailNumber: "MID"},
		{SailNumber: "FAST", Position: intPtr(1), Points: intPtr(1)},
	})
	require.NoError(t, err)
	// Insertion order is kept; missing positions come from the array index.
	assert.Equal(t, []string{"SLOW", "MID", "FAST"}, sailNumbers(rows))
	assert.Equal(t, []int{3, 2, 1}, positions(rows))

	stored, err := s.ListResults(ctx, race.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"FAST", "MID", "SLOW"}, sailNumbers(stored))
}

func TestReplaceResultsSmallerSetLeavesNoOrphans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	race := seedRace(t, s, seedEvent(t, s, true).ID)

	_, err := s.ReplaceResults(ctx, race.ID, []ResultInput{
		{SailNumber: "1"}, {SailNumber: "2"}, {SailNumber: "3"}, {SailNumber: "4"}, {SailNumber: "5"},
	})
	require.NoError(t, err)

	_, err = s.ReplaceResults(ctx, race.ID, []ResultInput{{SailNumber: "9", DNF: true}})
	require.NoError(t, err)

	stored, err := s.ListResults(ctx, race.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "9", stored[0].SailNumber)
	assert.True(t, stored[0].DNF)
}

func TestReplaceResultsOtherRacesUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	event := seedEvent(t, s, true)
	r1 := seedRace(t, s, event.ID)
	r2 := seedRace(t, s, event.ID)

	_, err := s.ReplaceResults(ctx, r1.ID, []ResultInput{{SailNumber: "A"}})
	require.NoError(t, err)
	_, err = s.ReplaceResults(ctx, r2.ID, []ResultInput{{SailNumber: "B"}, {SailNumber: "C"}})
	require.NoError(t, err)

	stored, err := s.ListResults(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, sailNumbers(stored))
}

func TestReplaceResultsRollsBackOnInsertFailure(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	race := seedRace(t, s, seedEvent(t, s, true).ID)

	_, err := s.ReplaceResults(ctx, race.ID, []ResultInput{
		{SailNumber: "OLD1", BoatName: strPtr("Osprey")},
		{SailNumber: "OLD2"},
	})
	require.NoError(t, err)
	before, err := s.ListResults(ctx, race.ID)
	require.NoError(t, err)

	// Make the second insert of the next submission fail inside the transaction.
	_, err = s.DB().ExecContext(ctx, `CREATE TRIGGER fail_boom BEFORE INSERT ON race_results
		WHEN NEW.sail_number = 'BOOM' BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)

	_, err = s.ReplaceResults(ctx, race.ID, []ResultInput{{SailNumber: "NEW"}, {SailNumber: "BOOM"}})
	require.Error(t, err)

	after, err := s.ListResults(ctx, race.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot(before), snapshot(after))
	assert.Equal(t, "Osprey", snapshot(after)[0].Boat)
}

func TestReplaceResultsUnknownRace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceResults(ctx, 404, []ResultInput{{SailNumber: "A"}})
	require.ErrorIs(t, err, ErrNotFound)

	n, err := s.DB().NewSelect().Model((*models.RaceResult)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.ListResults(ctx, 404)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceResultsDeletedRace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	race := seedRace(t, s, seedEvent(t, s, true).ID)
	require.NoError(t, s.DeleteRace(ctx, race.ID))

	_, err := s.ReplaceResults(ctx, race.ID, []ResultInput{{SailNumber: "A"}})
	require.ErrorIs(t, err, ErrNotFound)

	n, err := s.DB().NewSelect().Model((*models.RaceResult)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReplaceResultsEmptyClears(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	race := seedRace(t, s, seedEvent(t, s, true).ID)

	_, err := s.ReplaceResults(ctx, race.ID, []ResultInput{{SailNumber: "A"}})
	require.NoError(t, err)
	rows, err := s.ReplaceResults(ctx, race.ID, []ResultInput{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	stored, err := s.ListResults(ctx, race.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
