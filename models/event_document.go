package models

import (
	"time"

	"github.com/uptrace/bun"
)

// EventDocument is an uploaded file (notice of race, sailing instructions, ...)
// attached to an event.
type EventDocument struct {
	bun.BaseModel `bun:"table:event_documents,alias:ed"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	EventID      int64     `bun:"event_id,notnull" json:"event_id"`
	Title        string    `bun:"title,notnull" json:"title"`
	Filename     string    `bun:"filename,notnull" json:"filename"`
	OriginalName string    `bun:"original_name,notnull" json:"original_name"`
	MimeType     string    `bun:"mime_type,notnull" json:"mime_type"`
	Size         int64     `bun:"size,notnull" json:"size"`
	DocumentType string    `bun:"document_type,notnull,default:'other'" json:"document_type"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
