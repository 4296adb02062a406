package handlers

import (
	"FreshTrack/domain"
	"FreshTrack/internal/api/presenters"
	"FreshTrack/pkg/reminder"

	"github.com/gofiber/fiber/v2"
)

type (
	ReminderHandler interface {
		SendExpiryReminder(c *fiber.Ctx) error
	}

	reminderHandler struct {
		reminderService reminder.ReminderService
	}
)

func NewReminderHandler(reminderService reminder.ReminderService) ReminderHandler {
	return &reminderHandler{reminderService: reminderService}
}

// SendExpiryReminder mails the caller a digest of their expired and nearly expired items.
func (h *reminderHandler) SendExpiryReminder(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	email, _ := c.Locals("email").(string)

	res, err := h.reminderService.SendExpiryReminder(c.Context(), userID, email)
	if err != nil {
		return failed(c, domain.MessageFailedSendReminder, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSendReminder)
}
