package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

type EntitlementHandler struct {
	entitlements *services.EntitlementService
	inventory    *services.InventoryService
}

func NewEntitlementHandler(entitlements *services.EntitlementService, inventory *services.InventoryService) *EntitlementHandler {
	return &EntitlementHandler{entitlements: entitlements, inventory: inventory}
}

func (h *EntitlementHandler) List(c *fiber.Ctx) error {
	list, err := h.entitlements.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

// ReclaimExpired removes expired entitlements together with their keys.
func (h *EntitlementHandler) ReclaimExpired(c *fiber.Ctx) error {
	removed, details, err := h.inventory.ReclaimExpired()
	if err != nil {
		return fail(c, err)
	}
	slog.Info("expired entitlements reclaimed", "count", removed)
	return c.JSON(fiber.Map{"removed": removed, "details": details})
}

// ReclaimOrphans deletes keys no entitlement references.
func (h *EntitlementHandler) ReclaimOrphans(c *fiber.Ctx) error {
	removed, keys, err := h.inventory.ReclaimOrphans()
	if err != nil {
		return fail(c, err)
	}
	slog.Info("orphaned keys reclaimed", "count", removed)
	return c.JSON(fiber.Map{"removed": removed, "keys": keys})
}

// ExpiringSoon reports active entitlements expiring within the next days.
func (h *EntitlementHandler) ExpiringSoon(c *fiber.Ctx) error {
	days := c.QueryInt("days", 3)
	if days < 1 {
		return badRequest(c, "days must be positive")
	}
	list, err := h.inventory.ExpiringSoon(days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}
