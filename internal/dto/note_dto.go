package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	// Id is normally server-assigned; a client-supplied value is honored but
	// rejected with a conflict when it already exists.
	Id      *uuid.UUID `json:"id"`
	Title   string     `json:"title" validate:"required,notblank,max=255"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags"`
}

// UpdateNoteRequest is a partial update: blank title/content leave the stored
// value untouched, a nil tag list leaves tags untouched, a non-nil list
// replaces them entirely.
type UpdateNoteRequest struct {
	Id      uuid.UUID `json:"-"`
	Title   string    `json:"title" validate:"omitempty,max=255"`
	Content string    `json:"content"`
	Tags    *[]string `json:"tags"`
}

// NoteResponse is the transport view of a note. deleted_at is deliberately
// absent: deletion state is never exposed here.
type NoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	Username  string     `json:"username"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SearchNotesRequest struct {
	Tags       []string
	SearchTerm string
	Page       int
	Size       int
	SortField  string
	SortDesc   bool
}

type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}
