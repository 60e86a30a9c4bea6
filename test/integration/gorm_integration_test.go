package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the full lifecycle and query path against a real Postgres instance.
// Gated on DB_CONNECTION_STRING like the rest of the environment setup.
func TestNoteLifecycleAgainstPostgres(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err)

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	sysLogger := logger.NewZapLogger("integration-test.log", false)

	authService := service.NewAuthService(uowFactory, sysLogger)
	noteService := service.NewNoteService(uowFactory, sysLogger)

	ctx := context.Background()
	username := "it-" + uuid.New().String()[:8]

	registered, err := authService.Register(ctx, &dto.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "uytw4321",
	})
	require.NoError(t, err)

	created, err := noteService.Create(ctx, username, &dto.CreateNoteRequest{
		Title:   "Database Management",
		Content: "Complete tutorials",
		Tags:    []string{"Beginner", "Advanced"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"beginner", "advanced"}, created.Tags)

	t.Run("keyword search is case-insensitive", func(t *testing.T) {
		page, err := noteService.Search(ctx, registered.Id, &dto.SearchNotesRequest{
			SearchTerm: "database",
		})
		require.NoError(t, err)
		require.Len(t, page.Content, 1)
		assert.Equal(t, created.Id, page.Content[0].Id)
	})

	t.Run("tag filter matches any requested tag", func(t *testing.T) {
		page, err := noteService.Search(ctx, registered.Id, &dto.SearchNotesRequest{
			Tags: []string{"advanced", "nonexistent"},
		})
		require.NoError(t, err)
		require.Len(t, page.Content, 1)

		page, err = noteService.Search(ctx, registered.Id, &dto.SearchNotesRequest{
			Tags: []string{"nonexistent"},
		})
		require.NoError(t, err)
		assert.Empty(t, page.Content)
	})

	t.Run("soft delete hides, restore brings back", func(t *testing.T) {
		require.NoError(t, noteService.SoftDelete(ctx, registered.Id, created.Id))

		active, err := noteService.ListActive(ctx, registered.Id)
		require.NoError(t, err)
		assert.Empty(t, active)

		require.NoError(t, noteService.Restore(ctx, registered.Id, created.Id))

		active, err = noteService.ListActive(ctx, registered.Id)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, created.Id, active[0].Id)
	})

	t.Run("stored tag column survives a raw round trip", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: created.Id})
		require.NoError(t, err)
		require.NotNil(t, note)
		assert.Equal(t, []string{"beginner", "advanced"}, note.Tags)
		assert.WithinDuration(t, time.Now(), note.CreatedAt, time.Minute)
	})
}
