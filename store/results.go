package store

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/yachtclub/models"
)

// ResultInput is one submitted result row. Position is optional; when absent
// the row's 1-based index in the submission is used.
type ResultInput struct {
	SailNumber    string  `json:"sailNumber" validate:"required,max=20"`
	BoatName      *string `json:"boatName" validate:"omitempty,max=100"`
	SkipperName   *string `json:"skipperName" validate:"omitempty,max=100"`
	CrewNames     *string `json:"crewNames" validate:"omitempty,max=500"`
	YachtClass    *string `json:"yachtClass" validate:"omitempty,max=50"`
	FinishTime    *string `json:"finishTime" validate:"omitempty,max=20"`
	ElapsedTime   *string `json:"elapsedTime" validate:"omitempty,max=20"`
	CorrectedTime *string `json:"correctedTime" validate:"omitempty,max=20"`
	Position      *int    `json:"position" validate:"omitempty,min=0"`
	Points        *int    `json:"points" validate:"omitempty,min=0"`
	Disqualified  bool    `json:"disqualified"`
	DNS           bool    `json:"dns"`
	DNF           bool    `json:"dnf"`
	Retired       bool    `json:"retired"`
	Notes         *string `json:"notes" validate:"omitempty,max=500"`
}

func (in ResultInput) toModel(raceID int64, index int, now time.Time) *models.RaceResult {
	position := index + 1
	if in.Position != nil {
		position = *in.Position
	}
	return &models.RaceResult{
		RaceID:        raceID,
		SailNumber:    in.SailNumber,
		BoatName:      in.BoatName,
		SkipperName:   in.SkipperName,
		CrewNames:     in.CrewNames,
		YachtClass:    in.YachtClass,
		FinishTime:    in.FinishTime,
		ElapsedTime:   in.ElapsedTime,
		CorrectedTime: in.CorrectedTime,
		Position:      position,
		Points:        in.Points,
		Disqualified:  in.Disqualified,
		DNS:           in.DNS,
		DNF:           in.DNF,
		Retired:       in.Retired,
		Notes:         in.Notes,
		CreatedAt:     now,
	}
}

// ReplaceResults swaps the whole result set of a race for inputs inside one
// transaction. Readers see either the previous set or the new one. If any
// insert fails the deletions are rolled back too. Inputs must already be
// validated. The stored rows are returned in submission order.
func (s *Store) ReplaceResults(ctx context.Context, raceID int64, inputs []ResultInput) ([]*models.RaceResult, error) {
	now := time.Now().UTC()
	rows := make([]*models.RaceResult, len(inputs))
	for i, in := range inputs {
		rows[i] = in.toModel(raceID, i, now)
	}

	err := s.db.RunInTx(ctx, s.txOptions(), func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.Race)(nil)).
			Where("id = ?", raceID).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("check race %d: %w", raceID, err)
		}
		if !exists {
			return ErrNotFound
		}

		if _, err := tx.NewDelete().Model((*models.RaceResult)(nil)).
			Where("race_id = ?", raceID).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete results: %w", err)
		}
		for i, row := range rows {
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return fmt.Errorf("insert result %d (%s): %w", i+1, row.SailNumber, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListResults returns a race's results ordered for display, by position.
func (s *Store) ListResults(ctx context.Context, raceID int64) ([]*models.RaceResult, error) {
	exists, err := s.db.NewSelect().Model((*models.Race)(nil)).
		Where("id = ?", raceID).
		Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	results := []*models.RaceResult{}
	err = s.db.NewSelect().Model(&results).
		Where("race_id = ?", raceID).
		OrderExpr("position ASC, id ASC").
		Scan(ctx)
	return results, err
}
