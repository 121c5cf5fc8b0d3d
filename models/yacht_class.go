package models

import "github.com/uptrace/bun"

// YachtClass is a racing class (e.g. Laser, J/24) with an optional handicap rating.
type YachtClass struct {
	bun.BaseModel `bun:"table:yacht_classes,alias:yc"`

	ID          int64    `bun:"id,pk,autoincrement" json:"id"`
	Name        string   `bun:"name,notnull,unique" json:"name"`
	Description *string  `bun:"description" json:"description"`
	Handicap    *float64 `bun:"handicap" json:"handicap"`
}
