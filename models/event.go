package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EventTypes lists the event types accepted by the API.
var EventTypes = []string{"regatta", "race", "social", "training", "meeting", "other"}

// Event is a club calendar entry (regatta, social, training night, ...).
type Event struct {
	bun.BaseModel `bun:"table:events,alias:e"`

	ID                   int64      `bun:"id,pk,autoincrement" json:"id"`
	Title                string     `bun:"title,notnull" json:"title"`
	Description          *string    `bun:"description" json:"description"`
	EventType            string     `bun:"event_type,notnull" json:"event_type"`
	StartDate            time.Time  `bun:"start_date,notnull" json:"start_date"`
	EndDate              *time.Time `bun:"end_date" json:"end_date"`
	Location             *string    `bun:"location" json:"location"`
	RegistrationDeadline *time.Time `bun:"registration_deadline" json:"registration_deadline"`
	MaxParticipants      *int       `bun:"max_participants" json:"max_participants"`
	EntryFee             *float64   `bun:"entry_fee" json:"entry_fee"`
	Published            bool       `bun:"published,notnull,default:false" json:"published"`
	CreatedAt            time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Races     []*Race          `bun:"rel:has-many,join:id=event_id" json:"races,omitempty"`
	Documents []*EventDocument `bun:"rel:has-many,join:id=event_id" json:"documents,omitempty"`
}
