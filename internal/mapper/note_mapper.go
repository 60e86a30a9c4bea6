package mapper

import (
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/pkg/tags"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

// ToEntity can fail: the tag column is parsed here and a corrupt value must
// fail the whole operation rather than surface a note with silently dropped tags.
func (m *NoteMapper) ToEntity(n *model.Note) (*entity.Note, error) {
	if n == nil {
		return nil, nil
	}

	tagList, err := tags.Decode(n.Tags)
	if err != nil {
		return nil, err
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Note{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tagList,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: n.DeletedAt,
	}, nil
}

func (m *NoteMapper) ToModel(n *entity.Note) (*model.Note, error) {
	if n == nil {
		return nil, nil
	}

	encoded, err := tags.Encode(n.Tags)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Note{
		Id:        n.Id,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      encoded,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: n.DeletedAt,
	}, nil
}

func (m *NoteMapper) ToEntities(notes []*model.Note) ([]*entity.Note, error) {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		e, err := m.ToEntity(n)
		if err != nil {
			return nil, err
		}
		entities[i] = e
	}
	return entities, nil
}
