package controller

import (
	"strings"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	ListActive(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("search", c.Search)
	h.Get("", c.ListActive)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Patch(":id/restore", c.Restore)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), serverutils.OwnerUsername(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Note created successfully", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	res, err := c.noteService.Show(ctx.Context(), ownerId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Note retrieved successfully", res))
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Update(ctx.Context(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Note updated successfully", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	if err := c.noteService.SoftDelete(ctx.Context(), ownerId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Note deleted successfully", nil))
}

func (c *noteController) Restore(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	if err := c.noteService.Restore(ctx.Context(), ownerId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Note restored successfully", nil))
}

func (c *noteController) Search(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	req := dto.SearchNotesRequest{
		SearchTerm: ctx.Query("searchTerm"),
		Page:       ctx.QueryInt("page", 0),
		Size:       ctx.QueryInt("size", 10),
	}
	if raw := ctx.Query("tags"); raw != "" {
		req.Tags = strings.Split(raw, ",")
	}
	req.SortField, req.SortDesc = parseSort(ctx.Query("sort", "created_at,desc"))

	res, err := c.noteService.Search(ctx.Context(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notes retrieved successfully", res))
}

func (c *noteController) ListActive(ctx *fiber.Ctx) error {
	ownerId, err := serverutils.OwnerID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.noteService.ListActive(ctx.Context(), ownerId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Notes retrieved successfully", res))
}

// parseSort splits a "field,direction" query value; direction defaults to
// descending, matching the store default of newest-first.
func parseSort(raw string) (field string, desc bool) {
	parts := strings.SplitN(raw, ",", 2)
	field = strings.TrimSpace(parts[0])
	desc = true
	if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "asc") {
		desc = false
	}
	return field, desc
}
