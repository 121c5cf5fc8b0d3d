package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Story is a news item. Slug is unique and derived from the title.
type Story struct {
	bun.BaseModel `bun:"table:stories,alias:s"`

	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Title         string     `bun:"title,notnull" json:"title"`
	Slug          string     `bun:"slug,notnull,unique" json:"slug"`
	Excerpt       *string    `bun:"excerpt" json:"excerpt"`
	Content       string     `bun:"content,notnull" json:"content"`
	Author        *string    `bun:"author" json:"author"`
	FeaturedImage *string    `bun:"featured_image" json:"featured_image"`
	Category      *string    `bun:"category" json:"category"`
	Published     bool       `bun:"published,notnull,default:false" json:"published"`
	PublishedAt   *time.Time `bun:"published_at" json:"published_at"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
