package bootstrap

import (
	"notekeeper-be/internal/config"
	"notekeeper-be/internal/controller"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/internal/service"

	"gorm.io/gorm"
)

type Container struct {
	AuthController controller.IAuthController
	NoteController controller.INoteController

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	authService := service.NewAuthService(uowFactory, sysLogger)
	noteService := service.NewNoteService(uowFactory, sysLogger)

	return &Container{
		AuthController: controller.NewAuthController(authService),
		NoteController: controller.NewNoteController(noteService),
		Logger:         sysLogger,
	}
}
