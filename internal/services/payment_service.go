package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/database"
	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"gorm.io/gorm"
)

// PaymentService owns the pending -> approved/denied state machine for
// manually-verified top-ups. Both terminal states are final: a second
// approve or deny is reported back as already processed, never silently
// swallowed.
type PaymentService struct {
	db      *gorm.DB
	balance *BalanceService
}

func NewPaymentService(db *gorm.DB, balance *BalanceService) *PaymentService {
	return &PaymentService{db: db, balance: balance}
}

func (s *PaymentService) Create(userID int64, credits, priceMMK int) (*models.PendingPayment, error) {
	payment := models.PendingPayment{
		UserID:   userID,
		Credits:  credits,
		PriceMMK: priceMMK,
		Status:   models.PaymentStatusPending,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create pending payment: %w", err)
	}
	return &payment, nil
}

func (s *PaymentService) Get(id uint) (*models.PendingPayment, error) {
	var payment models.PendingPayment
	if err := s.db.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &payment, nil
}

// LatestPending returns the user's most recently created pending payment,
// the one a freshly submitted proof attaches to.
func (s *PaymentService) LatestPending(userID int64) (*models.PendingPayment, error) {
	var payment models.PendingPayment
	err := s.db.Where("user_id = ? AND status = ?", userID, models.PaymentStatusPending).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no pending payment for user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load pending payment: %w", err)
	}
	return &payment, nil
}

// AttachProof stores the proof reference on a still-pending payment. Once
// the payment has left pending the proof is immutable.
func (s *PaymentService) AttachProof(id uint, proofFileID string) error {
	payment, err := s.Get(id)
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentStatusPending {
		return fmt.Errorf("payment %d is %s: %w", id, payment.Status, ErrAlreadyProcessed)
	}

	result := s.db.Model(&models.PendingPayment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Update("proof_file_id", proofFileID)
	if result.Error != nil {
		return fmt.Errorf("failed to attach proof: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment %d: %w", id, ErrAlreadyProcessed)
	}
	return nil
}

// Approve flips the payment to approved and credits the user's balance in one
// transaction, so a crash between the two can never leave credits unpaid.
func (s *PaymentService) Approve(id uint) (*models.PendingPayment, error) {
	var payment *models.PendingPayment
	err := database.WithBusyRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			payment, err = s.transition(tx, id, models.PaymentStatusApproved)
			if err != nil {
				return err
			}
			return s.balance.CreditTx(tx, payment.UserID, float64(payment.Credits))
		})
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Deny flips the payment to denied. No balance effect.
func (s *PaymentService) Deny(id uint) (*models.PendingPayment, error) {
	var payment *models.PendingPayment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = s.transition(tx, id, models.PaymentStatusDenied)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) transition(tx *gorm.DB, id uint, to string) (*models.PendingPayment, error) {
	var payment models.PendingPayment
	if err := tx.First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, fmt.Errorf("payment %d is %s: %w", id, payment.Status, ErrAlreadyProcessed)
	}

	now := time.Now()
	result := tx.Model(&models.PendingPayment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":       to,
			"processed_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	// The guard lost a race with a concurrent transition.
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("payment %d: %w", id, ErrAlreadyProcessed)
	}

	payment.Status = to
	payment.ProcessedAt = &now
	return &payment, nil
}

func (s *PaymentService) ListPending() ([]models.PendingPayment, error) {
	var payments []models.PendingPayment
	err := s.db.Where("status = ?", models.PaymentStatusPending).
		Order("created_at ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}
	return payments, nil
}

func (s *PaymentService) List() ([]models.PendingPayment, error) {
	var payments []models.PendingPayment
	if err := s.db.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
