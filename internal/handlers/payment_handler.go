package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) List(c *fiber.Ctx) error {
	payments, err := h.paymentService.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payments)
}

func (h *PaymentHandler) ListPending(c *fiber.Ctx) error {
	payments, err := h.paymentService.ListPending()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payments)
}

func (h *PaymentHandler) Approve(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid payment ID")
	}
	payment, err := h.paymentService.Approve(id)
	if err != nil {
		return fail(c, err)
	}
	slog.Info("payment approved", "payment_id", payment.ID, "user_id", payment.UserID, "credits", payment.Credits)
	return c.JSON(payment)
}

func (h *PaymentHandler) Deny(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid payment ID")
	}
	payment, err := h.paymentService.Deny(id)
	if err != nil {
		return fail(c, err)
	}
	slog.Info("payment denied", "payment_id", payment.ID, "user_id", payment.UserID)
	return c.JSON(payment)
}
