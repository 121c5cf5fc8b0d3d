package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/yachtclub/models"
)

// EventFilter narrows ListEvents. Nil/zero fields are not applied.
// EndDate is an inclusive bound on the start time; EndBefore is exclusive.
type EventFilter struct {
	EventType string
	StartDate *time.Time
	EndDate   *time.Time
	EndBefore *time.Time
	Published *bool
	Page      Page
}

// ListEvents returns one page of events ordered by start date.
func (s *Store) ListEvents(ctx context.Context, f EventFilter) ([]*models.Event, int, error) {
	page := f.Page.Normalize()
	events := []*models.Event{}

	q := s.db.NewSelect().Model(&events)
	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	if f.StartDate != nil {
		q = q.Where("start_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("start_date <= ?", *f.EndDate)
	}
	if f.EndBefore != nil {
		q = q.Where("start_date < ?", *f.EndBefore)
	}
	if f.Published != nil {
		q = q.Where("published = ?", *f.Published)
	}

	total, err := q.OrderExpr("start_date ASC, id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetEvent loads an event with its races (and their classes) and documents.
func (s *Store) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.NewSelect().Model(event).
		Relation("Races", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("rc.race_number ASC, rc.id ASC")
		}).
		Relation("Races.YachtClass").
		Relation("Documents", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("ed.created_at ASC, ed.id ASC")
		}).
		Where("e.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return event, nil
}

// EventExists reports whether an event with id exists.
func (s *Store) EventExists(ctx context.Context, id int64) (bool, error) {
	return s.db.NewSelect().Model((*models.Event)(nil)).Where("id = ?", id).Exists(ctx)
}

// EventPublished reports whether the event is published. It returns
// ErrNotFound when there is no such event.
func (s *Store) EventPublished(ctx context.Context, id int64) (bool, error) {
	var published bool
	err := s.db.NewSelect().Model((*models.Event)(nil)).
		Column("published").
		Where("id = ?", id).
		Scan(ctx, &published)
	if err != nil {
		return false, notFound(err)
	}
	return published, nil
}

// CreateEvent inserts event.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	_, err := s.db.NewInsert().Model(event).Exec(ctx)
	return err
}

// UpdateEvent writes the named columns of event.
func (s *Store) UpdateEvent(ctx context.Context, event *models.Event, columns []string) error {
	event.UpdatedAt = time.Now().UTC()
	columns = append(append([]string(nil), columns...), "updated_at")
	res, err := s.db.NewUpdate().Model(event).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return affected(res)
}

// DeleteEvent removes an event together with its races, their results and
// its documents. The rows of uploaded documents are returned so the caller
// can remove the files.
func (s *Store) DeleteEvent(ctx context.Context, id int64) ([]*models.EventDocument, error) {
	docs := []*models.EventDocument{}

	err := s.db.RunInTx(ctx, s.txOptions(), func(ctx context.Context, tx bun.Tx) error {
		if err := tx.NewSelect().Model(&docs).Where("event_id = ?", id).Scan(ctx); err != nil {
			return fmt.Errorf("load documents: %w", err)
		}

		raceIDs := tx.NewSelect().Model((*models.Race)(nil)).Column("id").Where("event_id = ?", id)
		if _, err := tx.NewDelete().Model((*models.RaceResult)(nil)).
			Where("race_id IN (?)", raceIDs).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete results: %w", err)
		}
		if _, err := tx.NewDelete().Model((*models.Race)(nil)).Where("event_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete races: %w", err)
		}
		if _, err := tx.NewDelete().Model((*models.EventDocument)(nil)).Where("event_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete documents: %w", err)
		}

		res, err := tx.NewDelete().Model((*models.Event)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return affected(res)
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
