package services

import "errors"

// Local-operation failures. None of these are process-fatal; callers report a
// user-facing message and keep serving.
var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrStockExhausted      = errors.New("no keys available")
	ErrAlreadyProcessed    = errors.New("payment already processed")
	ErrIssuerUnavailable   = errors.New("credential issuer unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
)
