package models

import (
	"time"

	"github.com/uptrace/bun"
)

// RaceScheduled is the status of a newly created race.
const RaceScheduled = "scheduled"

// RaceStatuses lists the statuses accepted by the API.
var RaceStatuses = []string{RaceScheduled, "in_progress", "completed", "cancelled", "postponed"}

// Race is a single race within an event.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	EventID       int64      `bun:"event_id,notnull" json:"event_id"`
	Name          string     `bun:"name,notnull" json:"name"`
	RaceNumber    *int       `bun:"race_number" json:"race_number"`
	YachtClassID  *int64     `bun:"yacht_class_id" json:"yacht_class_id"`
	StartTime     *time.Time `bun:"start_time" json:"start_time"`
	Course        *string    `bun:"course" json:"course"`
	WindSpeed     *string    `bun:"wind_speed" json:"wind_speed"`
	WindDirection *string    `bun:"wind_direction" json:"wind_direction"`
	Status        string     `bun:"status,notnull,default:'scheduled'" json:"status"`
	Notes         *string    `bun:"notes" json:"notes"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`

	Event      *Event        `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
	YachtClass *YachtClass   `bun:"rel:belongs-to,join:yacht_class_id=id" json:"yacht_class,omitempty"`
	Results    []*RaceResult `bun:"rel:has-many,join:id=race_id" json:"results,omitempty"`
}
