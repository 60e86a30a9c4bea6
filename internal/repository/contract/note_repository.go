package contract

import (
	"context"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/repository/specification"
)

type NoteRepository interface {
	// Create persists a new note and writes the store-assigned timestamps back.
	Create(ctx context.Context, note *entity.Note) error
	// Update saves the full record and refreshes updated_at.
	Update(ctx context.Context, note *entity.Note) error
	// FindOne returns (nil, nil) when no record matches.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	// FindPage runs the filter specs twice: once with the page specs
	// (ordering, limit/offset) for the content, once alone for the total count.
	FindPage(ctx context.Context, filters []specification.Specification, pageSpecs ...specification.Specification) ([]*entity.Note, int64, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
