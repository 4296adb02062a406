package handlers

import (
	"FreshTrack/domain"
	"FreshTrack/internal/api/presenters"
	"FreshTrack/pkg/food"
	"FreshTrack/pkg/inventory"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	FoodHandler interface {
		CreateFoodItem(c *fiber.Ctx) error
		UpdateFoodItem(c *fiber.Ctx) error
		DeleteFoodItem(c *fiber.Ctx) error
		GetFoodItems(c *fiber.Ctx) error
		GetMyFoodItems(c *fiber.Ctx) error
		GetFoodItemDetails(c *fiber.Ctx) error
		AddNote(c *fiber.Ctx) error
		UploadFoodImage(c *fiber.Ctx) error
		GetInventoryStats(c *fiber.Ctx) error
	}

	foodHandler struct {
		foodService food.FoodService
		validator   *validator.Validate
	}
)

func NewFoodHandler(foodService food.FoodService, validator *validator.Validate) FoodHandler {
	return &foodHandler{
		foodService: foodService,
		validator:   validator,
	}
}

func (h *foodHandler) CreateFoodItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateFoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return validationFailed(c, domain.MessageFailedAddFoodItem, err)
	}

	res, err := h.foodService.CreateFoodItem(c.Context(), *req, userID)
	if err != nil {
		return failed(c, domain.MessageFailedAddFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFoodItem)
}

func (h *foodHandler) UpdateFoodItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")
	req := new(domain.UpdateFoodItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return validationFailed(c, domain.MessageFailedUpdateFoodItem, err)
	}

	res, err := h.foodService.UpdateFoodItem(c.Context(), itemID, *req, userID)
	if err != nil {
		return failed(c, domain.MessageFailedUpdateFoodItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateFoodItem)
}

func (h *foodHandler) DeleteFoodItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	if err := h.foodService.DeleteFoodItem(c.Context(), itemID, userID); err != nil {
		return failed(c, domain.MessageFailedDeleteFoodItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteFoodItem)
}

// GetFoodItems lists the shared inventory.
// Query: page, limit, search, category, expired, nearlyExpired.
func (h *foodHandler) GetFoodItems(c *fiber.Ctx) error {
	q, err := parseQuerySpec(c)
	if err != nil {
		return failed(c, domain.MessageFailedGetFoodItems, err)
	}

	page, err := h.foodService.GetFoodItems(c.Context(), q)
	if err != nil {
		return failed(c, domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, page, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) GetMyFoodItems(c *fiber.Ctx) error {
	q, err := parseQuerySpec(c)
	if err != nil {
		return failed(c, domain.MessageFailedGetFoodItems, err)
	}
	q.OwnerID = c.Locals("user_id").(string)

	page, err := h.foodService.GetFoodItems(c.Context(), q)
	if err != nil {
		return failed(c, domain.MessageFailedGetFoodItems, err)
	}

	return presenters.SuccessResponse(c, page, fiber.StatusOK, domain.MessageSuccessGetFoodItems)
}

func (h *foodHandler) GetFoodItemDetails(c *fiber.Ctx) error {
	itemID := c.Params("id")

	item, err := h.foodService.GetFoodItemByID(c.Context(), itemID)
	if err != nil {
		return failed(c, domain.MessageFailedGetFoodItem, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessGetFoodItem)
}

func (h *foodHandler) AddNote(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")
	req := new(domain.AddNoteRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return validationFailed(c, domain.MessageFailedAddNote, err)
	}

	res, err := h.foodService.AddNote(c.Context(), itemID, *req, userID)
	if err != nil {
		return failed(c, domain.MessageFailedAddNote, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddNote)
}

func (h *foodHandler) UploadFoodImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	itemID := c.Params("id")

	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.foodService.UploadFoodImage(c.Context(), itemID, image, userID)
	if err != nil {
		return failed(c, domain.MessageFailedUploadFoodImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadFoodImage)
}

func (h *foodHandler) GetInventoryStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	stats, err := h.foodService.GetInventoryStats(c.Context(), userID)
	if err != nil {
		return failed(c, domain.MessageFailedGetInventoryStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetInventoryStats)
}

// parseQuerySpec rejects a page that is not a positive integer. A bad limit
// silently falls back to the default page size.
func parseQuerySpec(c *fiber.Ctx) (inventory.QuerySpec, error) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return inventory.QuerySpec{}, domain.ErrInvalidPage
	}

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(inventory.DefaultPageSize)))
	if err != nil {
		limit = inventory.DefaultPageSize
	}

	expiry := inventory.ExpiryAny
	expired, nearly := c.QueryBool("expired"), c.QueryBool("nearlyExpired")
	switch {
	case expired && nearly:
		return inventory.QuerySpec{}, domain.ErrInvalidExpiryFilter
	case expired:
		expiry = inventory.ExpiryExpired
	case nearly:
		expiry = inventory.ExpiryNearlyExpired
	}

	return inventory.BuildQueryWith(page, limit, c.Query("search"), c.Query("category"), expiry)
}
