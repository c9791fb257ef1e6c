package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/config"
	"github.com/minkhantzaw/vpnshop-backend/internal/dto"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

type KeyHandler struct {
	inventory *services.InventoryService
	cfg       *config.Config
}

func NewKeyHandler(inventory *services.InventoryService, cfg *config.Config) *KeyHandler {
	return &KeyHandler{inventory: inventory, cfg: cfg}
}

func (h *KeyHandler) ListForPlan(c *fiber.Ctx) error {
	planID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}
	keys, err := h.inventory.AllForPlan(planID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(keys)
}

func (h *KeyHandler) Add(c *fiber.Ctx) error {
	planID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}
	var req dto.AddKeysRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	added, err := h.inventory.AddKeys(planID, req.Keys)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AddKeysResponse{Added: added})
}

func (h *KeyHandler) Generate(c *fiber.Ctx) error {
	planID, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}
	var req dto.GenerateKeysRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Count <= 0 || req.Count > 1000 {
		return badRequest(c, "count must be between 1 and 1000")
	}
	keys, err := h.inventory.GenerateKeys(planID, req.Count, req.Length)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.GenerateKeysResponse{Keys: keys})
}

func (h *KeyHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid key ID")
	}
	if err := h.inventory.DeleteKey(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Key deleted"})
}

func (h *KeyHandler) Statistics(c *fiber.Ctx) error {
	perPlan, global, err := h.inventory.Statistics()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"plans": perPlan, "summary": global})
}

func (h *KeyHandler) LowStock(c *fiber.Ctx) error {
	threshold := c.QueryInt("threshold", h.cfg.LowStockThreshold)
	rows, err := h.inventory.LowStock(threshold)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}
