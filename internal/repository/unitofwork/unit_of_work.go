package unitofwork

import (
	"context"

	"notekeeper-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one logical operation. Begin puts
// every repository obtained afterwards on the same transaction, so a
// fetch-then-mutate-then-save sequence commits or rolls back as a whole.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	NoteRepository() contract.NoteRepository
}
