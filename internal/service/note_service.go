package service

import (
	"context"
	"strings"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/tags"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const noteModule = "note_service"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type INoteService interface {
	Create(ctx context.Context, ownerUsername string, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Show(ctx context.Context, ownerId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, ownerId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	SoftDelete(ctx context.Context, ownerId uuid.UUID, id uuid.UUID) error
	Restore(ctx context.Context, ownerId uuid.UUID, id uuid.UUID) error
	ListActive(ctx context.Context, ownerId uuid.UUID) ([]*dto.NoteResponse, error)
	Search(ctx context.Context, ownerId uuid.UUID, req *dto.SearchNotesRequest) (*dto.PageResponse[*dto.NoteResponse], error)
}

type noteService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) INoteService {
	return &noteService{
		uowFactory: uowFactory,
		log:        log,
	}
}

func (s *noteService) Create(ctx context.Context, ownerUsername string, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// The owner lookup and duplicate-id guard share the insert's transaction,
	// so a concurrent insert of the same id cannot slip between check and write.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByUsernameOrEmail{Identifier: ownerUsername})
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperror.NewNotFound("user %s not found", ownerUsername)
	}

	id := uuid.New()
	if req.Id != nil {
		// Defensive duplicate-id guard: ids are normally server-assigned, but
		// a client-supplied one must not overwrite an existing note.
		existing, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: *req.Id})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflict("note already exists with id %s", *req.Id)
		}
		id = *req.Id
	}

	note := entity.Note{
		Id:        id,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      tags.Normalize(req.Tags),
		UserId:    owner.Id,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info(noteModule, "note created", map[string]interface{}{
		"note_id": note.Id,
		"user_id": owner.Id,
	})

	return toNoteResponse(&note, owner.Username), nil
}

func (s *noteService) Show(ctx context.Context, ownerId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := s.fetchOwned(ctx, uow, ownerId, id)
	if err != nil {
		return nil, err
	}

	username, err := s.ownerUsername(ctx, uow, ownerId)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note, username), nil
}

func (s *noteService) Update(ctx context.Context, ownerId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	note, err := s.fetchOwned(ctx, uow, ownerId, req.Id)
	if err != nil {
		return nil, err
	}

	// Partial update: blank fields are "leave unchanged", not "clear".
	// Blank means whitespace-only too, so "   " never clobbers a title.
	if strings.TrimSpace(req.Title) != "" {
		note.Title = req.Title
	}
	if strings.TrimSpace(req.Content) != "" {
		note.Content = req.Content
	}
	if req.Tags != nil {
		note.Tags = tags.Normalize(*req.Tags)
	}
	now := time.Now()
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info(noteModule, "note updated", map[string]interface{}{
		"note_id": note.Id,
	})

	username, err := s.ownerUsername(ctx, uow, ownerId)
	if err != nil {
		return nil, err
	}
	return toNoteResponse(note, username), nil
}

func (s *noteService) SoftDelete(ctx context.Context, ownerId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	note, err := s.fetchOwned(ctx, uow, ownerId, id)
	if err != nil {
		return err
	}

	if note.IsDeleted() {
		// Not an error: deleting again just re-stamps the time.
		s.log.Warn(noteModule, "note already deleted, re-stamping", map[string]interface{}{
			"note_id": id,
		})
	}

	now := time.Now()
	note.DeletedAt = &now
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info(noteModule, "note deleted", map[string]interface{}{
		"note_id": id,
	})
	return nil
}

func (s *noteService) Restore(ctx context.Context, ownerId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	note, err := s.fetchOwned(ctx, uow, ownerId, id)
	if err != nil {
		return err
	}

	if !note.IsDeleted() {
		s.log.Warn(noteModule, "note already active, nothing to restore", map[string]interface{}{
			"note_id": id,
		})
		return uow.Commit()
	}

	now := time.Now()
	note.DeletedAt = nil
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.log.Info(noteModule, "note restored", map[string]interface{}{
		"note_id": id,
	})
	return nil
}

func (s *noteService) ListActive(ctx context.Context, ownerId uuid.UUID) ([]*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.NotDeleted{},
		specification.OwnedBy{UserID: ownerId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	username, err := s.ownerUsername(ctx, uow, ownerId)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = toNoteResponse(note, username)
	}
	return responses, nil
}

func (s *noteService) Search(ctx context.Context, ownerId uuid.UUID, req *dto.SearchNotesRequest) (*dto.PageResponse[*dto.NoteResponse], error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	if page < 0 {
		page = 0
	}
	size := req.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	sortField := req.SortField
	if sortField == "" {
		sortField = "created_at"
	}

	// AND across dimensions; tag matching is OR within its own dimension.
	// Absent dimensions degrade to the neutral match-all predicate.
	filters := []specification.Specification{
		specification.NotDeleted{},
		specification.OwnedBy{UserID: ownerId},
		specification.HasAnyTag{Tags: req.Tags},
		specification.TitleOrContentContains{Term: req.SearchTerm},
	}

	notes, total, err := uow.NoteRepository().FindPage(ctx, filters,
		specification.OrderBy{Field: sortField, Desc: req.SortDesc},
		specification.Pagination{Limit: size, Offset: page * size},
	)
	if err != nil {
		return nil, err
	}

	s.log.Info(noteModule, "search completed", map[string]interface{}{
		"user_id": ownerId,
		"found":   len(notes),
		"total":   total,
	})

	username, err := s.ownerUsername(ctx, uow, ownerId)
	if err != nil {
		return nil, err
	}

	content := make([]*dto.NoteResponse, len(notes))
	for i, note := range notes {
		content[i] = toNoteResponse(note, username)
	}

	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}

	return &dto.PageResponse[*dto.NoteResponse]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// fetchOwned loads a note scoped to its owner, deleted or not: lifecycle
// operations (restore in particular) must see soft-deleted rows.
func (s *noteService) fetchOwned(ctx context.Context, uow unitofwork.UnitOfWork, ownerId uuid.UUID, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: ownerId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		s.log.Error(noteModule, "note not found", map[string]interface{}{
			"note_id": id,
			"user_id": ownerId,
		})
		return nil, apperror.NewNotFound("note not found with id %s", id)
	}
	return note, nil
}

func (s *noteService) ownerUsername(ctx context.Context, uow unitofwork.UnitOfWork, ownerId uuid.UUID) (string, error) {
	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: ownerId})
	if err != nil {
		return "", err
	}
	if owner == nil {
		return "", apperror.NewNotFound("user %s not found", ownerId)
	}
	return owner.Username, nil
}

func toNoteResponse(note *entity.Note, username string) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:        note.Id,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		Username:  username,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
