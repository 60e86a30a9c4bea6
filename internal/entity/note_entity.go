package entity

import (
	"time"

	"github.com/google/uuid"
)

// Note is the storage-agnostic note record. DeletedAt is the single source of
// truth for visibility: nil means active, non-nil means soft-deleted.
type Note struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Tags      []string // always normalized (lowercase, trimmed, deduplicated)
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

func (n *Note) IsDeleted() bool {
	return n.DeletedAt != nil
}
