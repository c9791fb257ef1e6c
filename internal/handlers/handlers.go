package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/minkhantzaw/vpnshop-backend/internal/dto"
	"github.com/minkhantzaw/vpnshop-backend/internal/services"
)

// fail maps a service error onto an HTTP status and a uniform error body.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyProcessed):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientBalance), errors.Is(err, services.ErrStockExhausted):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrIssuerUnavailable):
		status = fiber.StatusBadGateway
	case errors.Is(err, services.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}
