package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/dto"
	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	plans, err := h.planService.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plans)
}

func (h *PlanHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}
	plan, err := h.planService.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) Create(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.CreditsRequired <= 0 || req.DurationDays <= 0 {
		return badRequest(c, "name, credits_required and duration_days are required")
	}
	if req.DeviceLimit <= 0 {
		req.DeviceLimit = 1
	}

	plan := models.Plan{
		DisplayNumber:   req.DisplayNumber,
		Name:            req.Name,
		Description:     req.Description,
		CreditsRequired: req.CreditsRequired,
		DurationDays:    req.DurationDays,
		DeviceLimit:     req.DeviceLimit,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := h.planService.Create(&plan); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

func (h *PlanHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" || req.CreditsRequired <= 0 || req.DurationDays <= 0 {
		return badRequest(c, "name, credits_required and duration_days are required")
	}
	if req.DeviceLimit <= 0 {
		req.DeviceLimit = 1
	}

	plan := models.Plan{
		ID:              id,
		DisplayNumber:   req.DisplayNumber,
		Name:            req.Name,
		Description:     req.Description,
		CreditsRequired: req.CreditsRequired,
		DurationDays:    req.DurationDays,
		DeviceLimit:     req.DeviceLimit,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := h.planService.Update(&plan); err != nil {
		return fail(c, err)
	}
	return c.JSON(plan)
}

func (h *PlanHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid plan ID")
	}
	if err := h.planService.Delete(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Plan deleted"})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
