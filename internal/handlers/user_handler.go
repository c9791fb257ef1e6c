package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

type UserHandler struct {
	users        *services.UserService
	entitlements *services.EntitlementService
}

func NewUserHandler(users *services.UserService, entitlements *services.EntitlementService) *UserHandler {
	return &UserHandler{users: users, entitlements: entitlements}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	telegramID, err := strconv.ParseInt(c.Params("telegram_id"), 10, 64)
	if err != nil {
		return badRequest(c, "Invalid Telegram ID")
	}
	user, err := h.users.Get(telegramID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// Entitlements lists a user's purchases, newest first.
func (h *UserHandler) Entitlements(c *fiber.Ctx) error {
	telegramID, err := strconv.ParseInt(c.Params("telegram_id"), 10, 64)
	if err != nil {
		return badRequest(c, "Invalid Telegram ID")
	}
	list, err := h.entitlements.ListForUser(telegramID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}
