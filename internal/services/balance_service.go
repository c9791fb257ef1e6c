package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"gorm.io/gorm"
)

// BalanceService owns the per-user credit balance. Credits are whole units;
// the stored value is re-snapped to the nearest integer on every mutation so
// repeated float addition can never drift, and reads round again for the same
// reason.
type BalanceService struct {
	db *gorm.DB
}

func NewBalanceService(db *gorm.DB) *BalanceService {
	return &BalanceService{db: db}
}

func (s *BalanceService) Get(telegramID int64) (int, error) {
	var user models.User
	if err := s.db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user %d: %w", telegramID, ErrNotFound)
		}
		return 0, fmt.Errorf("failed to load balance: %w", err)
	}
	return int(math.Round(user.Balance)), nil
}

// Credit adds amount (negative for debits) and re-rounds the stored value in
// a single statement, so concurrent credits cannot lose updates.
func (s *BalanceService) Credit(telegramID int64, amount float64) error {
	return s.credit(s.db, telegramID, amount)
}

// CreditTx is Credit inside a caller-held transaction.
func (s *BalanceService) CreditTx(tx *gorm.DB, telegramID int64, amount float64) error {
	return s.credit(tx, telegramID, amount)
}

func (s *BalanceService) credit(db *gorm.DB, telegramID int64, amount float64) error {
	result := db.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("ROUND(balance + ?)", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", telegramID, ErrNotFound)
	}
	return nil
}

// DebitIfEnough subtracts amount only when the balance covers it, in one
// conditional statement. ErrInsufficientBalance when the guard fails.
func (s *BalanceService) DebitIfEnough(tx *gorm.DB, telegramID int64, amount int) error {
	result := tx.Model(&models.User{}).
		Where("telegram_id = ? AND balance >= ?", telegramID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("ROUND(balance - ?)", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to debit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}
