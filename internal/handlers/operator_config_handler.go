package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/dto"
	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

// OperatorConfigHandler serves the operator-managed pricing, payment-method
// and contact tables.
type OperatorConfigHandler struct {
	topups   *services.TopupService
	methods  *services.PaymentMethodService
	contacts *services.ContactService
}

func NewOperatorConfigHandler(topups *services.TopupService, methods *services.PaymentMethodService, contacts *services.ContactService) *OperatorConfigHandler {
	return &OperatorConfigHandler{topups: topups, methods: methods, contacts: contacts}
}

func (h *OperatorConfigHandler) ListTopups(c *fiber.Ctx) error {
	options, err := h.topups.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(options)
}

func (h *OperatorConfigHandler) CreateTopup(c *fiber.Ctx) error {
	var req dto.TopupOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Credits <= 0 || req.PriceMMK <= 0 {
		return badRequest(c, "credits and price_mmk must be positive")
	}
	option := models.TopupOption{
		Credits:  req.Credits,
		PriceMMK: req.PriceMMK,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.topups.Create(&option); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(option)
}

func (h *OperatorConfigHandler) UpdateTopup(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid topup ID")
	}
	var req dto.TopupOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	option := models.TopupOption{
		ID:       id,
		Credits:  req.Credits,
		PriceMMK: req.PriceMMK,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.topups.Update(&option); err != nil {
		return fail(c, err)
	}
	return c.JSON(option)
}

func (h *OperatorConfigHandler) DeleteTopup(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid topup ID")
	}
	if err := h.topups.Delete(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Topup option deleted"})
}

func (h *OperatorConfigHandler) ListPaymentMethods(c *fiber.Ctx) error {
	methods, err := h.methods.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(methods)
}

func (h *OperatorConfigHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	var req dto.PaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	method := models.PaymentMethod{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := h.methods.Create(&method); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(method)
}

func (h *OperatorConfigHandler) UpdatePaymentMethod(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid payment method ID")
	}
	var req dto.PaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	method := models.PaymentMethod{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := h.methods.Update(&method); err != nil {
		return fail(c, err)
	}
	return c.JSON(method)
}

func (h *OperatorConfigHandler) DeletePaymentMethod(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid payment method ID")
	}
	if err := h.methods.Delete(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment method deleted"})
}

func (h *OperatorConfigHandler) ListContacts(c *fiber.Ctx) error {
	contacts, err := h.contacts.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(contacts)
}

func (h *OperatorConfigHandler) UpdateContact(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid contact ID")
	}
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	contact := models.ContactConfig{
		ID:           id,
		ContactValue: req.ContactValue,
		IsActive:     req.IsActive == nil || *req.IsActive,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.contacts.Update(&contact); err != nil {
		return fail(c, err)
	}
	return c.JSON(contact)
}
