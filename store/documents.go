package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/yachtclub/models"
)

// CreateDocuments attaches uploaded files to an event in one transaction.
func (s *Store) CreateDocuments(ctx context.Context, eventID int64, docs []*models.EventDocument) error {
	exists, err := s.EventExists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if len(docs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, d := range docs {
		d.EventID = eventID
		d.CreatedAt = now
		if d.DocumentType == "" {
			d.DocumentType = "other"
		}
	}

	return s.db.RunInTx(ctx, s.txOptions(), func(ctx context.Context, tx bun.Tx) error {
		for _, d := range docs {
			if _, err := tx.NewInsert().Model(d).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
