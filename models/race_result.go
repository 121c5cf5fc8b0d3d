package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RaceResult holds one boat's outcome in a race. A race's results are always
// replaced as a whole, never edited row by row.
type RaceResult struct {
	bun.BaseModel `bun:"table:race_results,alias:rr"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	RaceID        int64     `bun:"race_id,notnull" json:"race_id"`
	SailNumber    string    `bun:"sail_number,notnull,type:varchar(20)" json:"sail_number"`
	BoatName      *string   `bun:"boat_name,type:varchar(100)" json:"boat_name"`
	SkipperName   *string   `bun:"skipper_name,type:varchar(100)" json:"skipper_name"`
	CrewNames     *string   `bun:"crew_names,type:varchar(500)" json:"crew_names"`
	YachtClass    *string   `bun:"yacht_class,type:varchar(50)" json:"yacht_class"`
	FinishTime    *string   `bun:"finish_time,type:varchar(20)" json:"finish_time"`
	ElapsedTime   *string   `bun:"elapsed_time,type:varchar(20)" json:"elapsed_time"`
	CorrectedTime *string   `bun:"corrected_time,type:varchar(20)" json:"corrected_time"`
	Position      int       `bun:"position,notnull" json:"position"`
	Points        *int      `bun:"points" json:"points"`
	Disqualified  bool      `bun:"disqualified,notnull,default:false" json:"disqualified"`
	DNS           bool      `bun:"dns,notnull,default:false" json:"dns"`
	DNF           bool      `bun:"dnf,notnull,default:false" json:"dnf"`
	Retired       bool      `bun:"retired,notnull,default:false" json:"retired"`
	Notes         *string   `bun:"notes,type:varchar(500)" json:"notes"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
