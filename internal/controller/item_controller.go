package controller

import (
	"io"

	"blii-be/internal/dto"
	"blii-be/internal/pkg/serverutils"
	"blii-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IItemController interface {
	RegisterRoutes(r fiber.Router)
	SaveText(ctx *fiber.Ctx) error
	SaveLink(ctx *fiber.Ctx) error
	SaveUpload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	UpdateTags(ctx *fiber.Ctx) error
	ToggleStar(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ListTrash(ctx *fiber.Ctx) error
	Recover(ctx *fiber.Ctx) error
	HardDelete(ctx *fiber.Ctx) error
}

type itemController struct {
	itemService service.IItemService
}

func NewItemController(itemService service.IItemService) IItemController {
	return &itemController{
		itemService: itemService,
	}
}

func (c *itemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/item/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("text", c.SaveText)
	h.Post("link", c.SaveLink)
	h.Post("upload", c.SaveUpload)
	h.Get("", c.List)
	h.Get("search", c.Search)
	h.Get("trash", c.ListTrash)
	h.Get(":id", c.Show)
	h.Put(":id/tags", c.UpdateTags)
	h.Post(":id/star", c.ToggleStar)
	h.Post(":id/recover", c.Recover)
	h.Delete(":id/permanent", c.HardDelete)
	h.Delete(":id", c.Delete)
}

func (c *itemController) SaveText(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SaveTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.itemService.SaveText(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save text", res))
}

func (c *itemController) SaveLink(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SaveLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.itemService.SaveLink(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save link", res))
}

func (c *itemController) SaveUpload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return &serverutils.ValidationError{Message: "missing file field"}
	}

	req := dto.SaveUploadRequest{
		Kind:    ctx.FormValue("kind"),
		Content: ctx.FormValue("content"),
	}
	if tag := ctx.FormValue("tag"); tag != "" {
		req.Tags = []string{tag}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.itemService.SaveUpload(ctx.Context(), userId, &req, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save upload", res))
}

func (c *itemController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	limit := ctx.QueryInt("limit", 100)

	res, err := c.itemService.List(ctx.Context(), userId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list items", res))
}

func (c *itemController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.itemService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show item", res))
}

func (c *itemController) Search(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	req := dto.SearchItemsRequest{
		Query: ctx.Query("q"),
	}
	if tag := ctx.Query("tag"); tag != "" {
		req.Tags = []string{tag}
	}

	res, err := c.itemService.Search(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search items", res))
}

func (c *itemController) UpdateTags(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UpdateTagsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.itemService.UpdateTags(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update tags", res))
}

func (c *itemController) ToggleStar(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.itemService.ToggleStar(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle star", res))
}

func (c *itemController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	if err := c.itemService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete item", nil))
}

func (c *itemController) ListTrash(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.itemService.ListTrash(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list trash", res))
}

func (c *itemController) Recover(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	if err := c.itemService.Recover(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recover item", nil))
}

func (c *itemController) HardDelete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	if err := c.itemService.HardDelete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success permanently delete item", nil))
}
