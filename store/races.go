package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/yachtclub/models"
)

// ListRaces returns the races of an event in race order.
func (s *Store) ListRaces(ctx context.Context, eventID int64) ([]*models.Race, error) {
	exists, err := s.EventExists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	races := []*models.Race{}
	err = s.db.NewSelect().Model(&races).
		Relation("YachtClass").
		Where("rc.event_id = ?", eventID).
		OrderExpr("rc.race_number ASC, rc.id ASC").
		Scan(ctx)
	return races, err
}

// GetRace loads a race with its event, class and results ordered by position.
func (s *Store) GetRace(ctx context.Context, id int64) (*models.Race, error) {
	race := &models.Race{}
	err := s.db.NewSelect().Model(race).
		Relation("Event").
		Relation("YachtClass").
		Relation("Results", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("rr.position ASC, rr.id ASC")
		}).
		Where("rc.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return race, nil
}

// RaceEventPublished reports whether the event owning the race is published.
// It returns ErrNotFound when there is no such race.
func (s *Store) RaceEventPublished(ctx context.Context, raceID int64) (bool, error) {
	var published bool
	err := s.db.NewSelect().Model((*models.Race)(nil)).
		ColumnExpr("e.published").
		Join("JOIN events AS e ON e.id = rc.event_id").
		Where("rc.id = ?", raceID).
		Scan(ctx, &published)
	if err != nil {
		return false, notFound(err)
	}
	return published, nil
}

// CreateRace inserts race for its event, which must exist.
func (s *Store) CreateRace(ctx context.Context, race *models.Race) error {
	exists, err := s.EventExists(ctx, race.EventID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	now := time.Now().UTC()
	race.CreatedAt = now
	race.UpdatedAt = now
	if race.Status == "" {
		race.Status = models.RaceScheduled
	}
	_, err = s.db.NewInsert().Model(race).Exec(ctx)
	return err
}

// UpdateRace writes the named columns of race.
func (s *Store) UpdateRace(ctx context.Context, race *models.Race, columns []string) error {
	race.UpdatedAt = time.Now().UTC()
	columns = append(append([]string(nil), columns...), "updated_at")
	res, err := s.db.NewUpdate().Model(race).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteRace removes a race and its results.
func (s *Store) DeleteRace(ctx context.Context, id int64) error {
	return s.db.RunInTx(ctx, s.txOptions(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.RaceResult)(nil)).Where("race_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete results: %w", err)
		}
		res, err := tx.NewDelete().Model((*models.Race)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete race: %w", err)
		}
		return affected(res)
	})
}
