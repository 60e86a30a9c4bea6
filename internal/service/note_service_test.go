package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/apperror"
	"notekeeper-be/internal/pkg/tags"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fakes below evaluate the closed set of specification values in memory,
// so the service tests exercise the same predicate composition the store sees.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeNoteRepo struct {
	notes map[uuid.UUID]*entity.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]*entity.Note)}
}

func cloneNote(n *entity.Note) *entity.Note {
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	if n.UpdatedAt != nil {
		t := *n.UpdatedAt
		c.UpdatedAt = &t
	}
	if n.DeletedAt != nil {
		t := *n.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func matchNote(n *entity.Note, spec specification.Specification) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return n.Id == s.ID
	case specification.OwnedBy:
		return n.UserId == s.UserID
	case specification.NotDeleted:
		return n.DeletedAt == nil
	case specification.TitleOrContentContains:
		term := strings.ToLower(strings.TrimSpace(s.Term))
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(n.Title), term) ||
			strings.Contains(strings.ToLower(n.Content), term)
	case specification.HasAnyTag:
		requested := tags.Normalize(s.Tags)
		if len(requested) == 0 {
			return true
		}
		for _, want := range requested {
			for _, have := range n.Tags {
				if want == have {
					return true
				}
			}
		}
		return false
	default:
		return true
	}
}

func (r *fakeNoteRepo) Create(ctx context.Context, note *entity.Note) error {
	if _, exists := r.notes[note.Id]; exists {
		return fmt.Errorf("duplicate key: %s", note.Id)
	}
	r.notes[note.Id] = cloneNote(note)
	return nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, note *entity.Note) error {
	now := time.Now()
	note.UpdatedAt = &now
	r.notes[note.Id] = cloneNote(note)
	return nil
}

func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeNoteRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var order *specification.OrderBy
	var page *specification.Pagination

	var matched []*entity.Note
	for _, n := range r.notes {
		ok := true
		for _, spec := range specs {
			if !matchNote(n, spec) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, cloneNote(n))
		}
	}

	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			o := s
			order = &o
		case specification.Pagination:
			p := s
			page = &p
		}
	}

	if order != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			var less bool
			switch order.Field {
			case "title":
				less = matched[i].Title < matched[j].Title
			case "updated_at", "updatedAt":
				var ti, tj time.Time
				if matched[i].UpdatedAt != nil {
					ti = *matched[i].UpdatedAt
				}
				if matched[j].UpdatedAt != nil {
					tj = *matched[j].UpdatedAt
				}
				less = ti.Before(tj)
			default:
				less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
			}
			if order.Desc {
				return !less
			}
			return less
		})
	}

	if page != nil {
		if page.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[page.Offset:]
		if page.Limit < len(matched) {
			matched = matched[:page.Limit]
		}
	}

	return matched, nil
}

func (r *fakeNoteRepo) FindPage(ctx context.Context, filters []specification.Specification, pageSpecs ...specification.Specification) ([]*entity.Note, int64, error) {
	total, err := r.Count(ctx, filters...)
	if err != nil {
		return nil, 0, err
	}
	combined := append(append([]specification.Specification{}, filters...), pageSpecs...)
	notes, err := r.FindAll(ctx, combined...)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
	finds int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func matchUser(u *entity.User, spec specification.Specification) bool {
	switch s := spec.(type) {
	case specification.ByID:
		return u.Id == s.ID
	case specification.ByEmail:
		return u.Email == s.Email
	case specification.ByUsername:
		return u.Username == s.Username
	case specification.ByUsernameOrEmail:
		return u.Username == s.Identifier || u.Email == s.Identifier
	default:
		return true
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.Id] = user
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.finds++
	for _, u := range r.users {
		ok := true
		for _, spec := range specs {
			if !matchUser(u, spec) {
				ok = false
				break
			}
		}
		if ok {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	for _, u := range r.users {
		ok := true
		for _, spec := range specs {
			if !matchUser(u, spec) {
				ok = false
				break
			}
		}
		if ok {
			count++
		}
	}
	return count, nil
}

type fakeUow struct {
	users    *fakeUserRepo
	notes    *fakeNoteRepo
	beginErr error
}

func (f *fakeUow) Begin(ctx context.Context) error         { return f.beginErr }
func (f *fakeUow) Commit() error                           { return nil }
func (f *fakeUow) Rollback() error                         { return nil }
func (f *fakeUow) UserRepository() contract.UserRepository { return f.users }
func (f *fakeUow) NoteRepository() contract.NoteRepository { return f.notes }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fixture struct {
	svc   INoteService
	uow   *fakeUow
	users *fakeUserRepo
	notes *fakeNoteRepo
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	notes := newFakeNoteRepo()
	uow := &fakeUow{users: users, notes: notes}
	return &fixture{
		svc:   NewNoteService(&fakeFactory{uow: uow}, nopLogger{}),
		uow:   uow,
		users: users,
		notes: notes,
	}
}

func (f *fixture) addUser(t *testing.T, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:        uuid.New(),
		Email:     username + "@example.com",
		Username:  username,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) addNote(t *testing.T, owner *entity.User, title, content string, tagList []string) *entity.Note {
	t.Helper()
	note := &entity.Note{
		Id:        uuid.New(),
		Title:     title,
		Content:   content,
		Tags:      tags.Normalize(tagList),
		UserId:    owner.Id,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.notes.Create(context.Background(), note))
	return note
}

func TestCreateResolvesOwnerAndNormalizesTags(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	ctx := context.Background()

	res, err := f.svc.Create(ctx, "alby", &dto.CreateNoteRequest{
		Title:   "Database Management",
		Content: "Complete tutorials",
		Tags:    []string{"Beginner", "Advanced"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Database Management", res.Title)
	assert.Equal(t, "Complete tutorials", res.Content)
	assert.Equal(t, []string{"beginner", "advanced"}, res.Tags)
	assert.Equal(t, "alby", res.Username)

	fetched, err := f.svc.Show(ctx, owner.Id, res.Id)
	require.NoError(t, err)
	assert.Equal(t, res.Title, fetched.Title)
	assert.Equal(t, res.Content, fetched.Content)
	assert.Equal(t, []string{"beginner", "advanced"}, fetched.Tags)
}

func TestCreateUnknownOwnerFails(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), "ghost", &dto.CreateNoteRequest{Title: "x"})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateDuplicateClientIdConflicts(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	existing := f.addNote(t, owner, "taken", "", nil)

	_, err := f.svc.Create(context.Background(), "alby", &dto.CreateNoteRequest{
		Id:    &existing.Id,
		Title: "imposter",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestCreateGuardsRunInsideTransaction(t *testing.T) {
	f := newFixture()
	f.addUser(t, "alby")
	f.uow.beginErr = fmt.Errorf("connection lost")

	// The owner lookup and duplicate-id check belong to the insert's
	// transaction: when Begin fails, neither may run.
	_, err := f.svc.Create(context.Background(), "alby", &dto.CreateNoteRequest{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, 0, f.users.finds)
}

func TestShowUnknownNoteFails(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")

	_, err := f.svc.Show(context.Background(), owner.Id, uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestShowIsOwnerScoped(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	note := f.addNote(t, alice, "private", "", nil)

	_, err := f.svc.Show(context.Background(), bob.Id, note.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdatePartialPreservesUntouchedFields(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "original title", "original content", []string{"work"})

	res, err := f.svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:      note.Id,
		Content: "revised content",
	})
	require.NoError(t, err)

	assert.Equal(t, "original title", res.Title)
	assert.Equal(t, "revised content", res.Content)
	assert.Equal(t, []string{"work"}, res.Tags)
	assert.NotNil(t, res.UpdatedAt)
}

func TestUpdateWhitespaceFieldsLeaveStoredValues(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "original title", "original content", nil)

	// Whitespace-only counts as blank, same as an omitted field.
	res, err := f.svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:      note.Id,
		Title:   "   ",
		Content: "\t\n",
	})
	require.NoError(t, err)

	assert.Equal(t, "original title", res.Title)
	assert.Equal(t, "original content", res.Content)

	stored := f.notes.notes[note.Id]
	assert.Equal(t, "original title", stored.Title)
	assert.Equal(t, "original content", stored.Content)
}

func TestUpdateReplacesTagsWhenPresent(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "title", "content", []string{"work", "urgent"})

	newTags := []string{" Personal ", "personal", "IDEAS"}
	res, err := f.svc.Update(context.Background(), owner.Id, &dto.UpdateNoteRequest{
		Id:   note.Id,
		Tags: &newTags,
	})
	require.NoError(t, err)

	// Full replace after normalization, not a merge.
	assert.Equal(t, []string{"personal", "ideas"}, res.Tags)
	assert.Equal(t, "title", res.Title)
}

func TestSoftDeleteThenRestoreIsReversible(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "keep me", "around", []string{"work"})
	ctx := context.Background()

	require.NoError(t, f.svc.SoftDelete(ctx, owner.Id, note.Id))
	stored := f.notes.notes[note.Id]
	require.NotNil(t, stored.DeletedAt)

	require.NoError(t, f.svc.Restore(ctx, owner.Id, note.Id))
	stored = f.notes.notes[note.Id]
	assert.Nil(t, stored.DeletedAt)
	assert.Equal(t, note.Title, stored.Title)
	assert.Equal(t, note.Content, stored.Content)
	assert.Equal(t, note.Tags, stored.Tags)
	assert.Equal(t, note.CreatedAt, stored.CreatedAt)
}

func TestSoftDeleteTwiceRestamps(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "doomed", "", nil)
	ctx := context.Background()

	require.NoError(t, f.svc.SoftDelete(ctx, owner.Id, note.Id))
	first := *f.notes.notes[note.Id].DeletedAt

	time.Sleep(time.Millisecond)
	require.NoError(t, f.svc.SoftDelete(ctx, owner.Id, note.Id))
	second := *f.notes.notes[note.Id].DeletedAt

	assert.True(t, second.After(first))
}

func TestRestoreActiveNoteIsNoop(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "still here", "", nil)

	require.NoError(t, f.svc.Restore(context.Background(), owner.Id, note.Id))
	assert.Nil(t, f.notes.notes[note.Id].DeletedAt)
}

func TestListActiveExcludesDeleted(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	keep := f.addNote(t, owner, "keep", "", nil)
	gone := f.addNote(t, owner, "gone", "", nil)
	ctx := context.Background()

	require.NoError(t, f.svc.SoftDelete(ctx, owner.Id, gone.Id))

	active, err := f.svc.ListActive(ctx, owner.Id)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.Id, active[0].Id)

	require.NoError(t, f.svc.Restore(ctx, owner.Id, gone.Id))

	active, err = f.svc.ListActive(ctx, owner.Id)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestSearchIsOwnerScoped(t *testing.T) {
	f := newFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	aliceNote := f.addNote(t, alice, "alice note", "", []string{"shared"})
	f.addNote(t, bob, "bob note", "", []string{"shared"})

	page, err := f.svc.Search(context.Background(), alice.Id, &dto.SearchNotesRequest{
		Tags: []string{"shared"},
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, aliceNote.Id, page.Content[0].Id)
	assert.Equal(t, "alice", page.Content[0].Username)
}

func TestSearchTagOrSemantics(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "tagged", "", []string{"work", "urgent"})
	ctx := context.Background()

	// Non-empty intersection matches.
	page, err := f.svc.Search(ctx, owner.Id, &dto.SearchNotesRequest{
		Tags: []string{"urgent", "personal"},
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, note.Id, page.Content[0].Id)

	// Empty intersection does not.
	page, err = f.svc.Search(ctx, owner.Id, &dto.SearchNotesRequest{
		Tags: []string{"personal"},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
}

func TestSearchKeywordIsCaseInsensitiveSubstring(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	f.addNote(t, owner, "Spring Boot Framework", "Complete guide", nil)
	f.addNote(t, owner, "Database Management", "Complete tutorials", nil)
	ctx := context.Background()

	for _, term := range []string{"spring", "Boot"} {
		page, err := f.svc.Search(ctx, owner.Id, &dto.SearchNotesRequest{SearchTerm: term})
		require.NoError(t, err)
		require.Len(t, page.Content, 1, "term=%s", term)
		assert.Equal(t, "Spring Boot Framework", page.Content[0].Title, "term=%s", term)
	}

	// Content matches too.
	page, err := f.svc.Search(ctx, owner.Id, &dto.SearchNotesRequest{SearchTerm: "tutorials"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Database Management", page.Content[0].Title)
}

func TestSearchExcludesDeletedNotes(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	note := f.addNote(t, owner, "findable", "", nil)
	ctx := context.Background()

	require.NoError(t, f.svc.SoftDelete(ctx, owner.Id, note.Id))

	page, err := f.svc.Search(ctx, owner.Id, &dto.SearchNotesRequest{SearchTerm: "findable"})
	require.NoError(t, err)
	assert.Empty(t, page.Content)
}

func TestSearchPaginationMetadata(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	base := time.Now()
	for i := 0; i < 25; i++ {
		note := &entity.Note{
			Id:        uuid.New(),
			Title:     fmt.Sprintf("note %02d", i),
			UserId:    owner.Id,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, f.notes.Create(context.Background(), note))
	}
	ctx := context.Background()

	page, err := f.svc.Search(ctx, owner.Id, &dto.SearchNotesRequest{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, page.Content, 10)
	assert.Equal(t, int64(25), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)

	// Default sort is newest first.
	assert.Equal(t, "note 24", page.Content[0].Title)

	last, err := f.svc.Search(ctx, owner.Id, &dto.SearchNotesRequest{Page: 2, Size: 10})
	require.NoError(t, err)
	assert.Len(t, last.Content, 5)
}

func TestSearchSortAscending(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")
	f.addNote(t, owner, "banana", "", nil)
	f.addNote(t, owner, "apple", "", nil)

	page, err := f.svc.Search(context.Background(), owner.Id, &dto.SearchNotesRequest{
		SortField: "title",
		SortDesc:  false,
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "apple", page.Content[0].Title)
}

func TestSearchClampsPageSize(t *testing.T) {
	f := newFixture()
	owner := f.addUser(t, "alby")

	page, err := f.svc.Search(context.Background(), owner.Id, &dto.SearchNotesRequest{Size: 100000})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Size)

	page, err = f.svc.Search(context.Background(), owner.Id, &dto.SearchNotesRequest{Size: -1})
	require.NoError(t, err)
	assert.Equal(t, 10, page.Size)
}
