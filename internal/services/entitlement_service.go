package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/database"
	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/minkhantzaw/vpnshop-backend/internal/qito"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CredentialIssuer provisions dynamic-plan credentials. Satisfied by
// *qito.Client; faked in tests.
type CredentialIssuer interface {
	CreateUser(ctx context.Context, deviceLimit, durationDays int) (*qito.Credentials, error)
}

// EntitlementService executes purchases and owns the user_plans ledger.
// Each purchase runs its check -> assign/issue -> debit sequence inside a
// single transaction, so a failed step leaves no partial state behind.
type EntitlementService struct {
	db        *gorm.DB
	balance   *BalanceService
	inventory *InventoryService
	issuer    CredentialIssuer
}

func NewEntitlementService(db *gorm.DB, balance *BalanceService, inventory *InventoryService, issuer CredentialIssuer) *EntitlementService {
	return &EntitlementService{db: db, balance: balance, inventory: inventory, issuer: issuer}
}

// PurchaseResult carries what the chat interface needs to show the buyer.
type PurchaseResult struct {
	Plan        *models.Plan
	Entitlement *models.UserPlan
	KeyValue    string // static purchases
	Username    string // dynamic purchases
	Password    string
}

// PurchaseStatic buys a key-pool plan: verify balance, claim the oldest
// unused key, write the entitlement, debit. All inside one transaction;
// ErrInsufficientBalance and ErrStockExhausted roll back with no mutation.
func (s *EntitlementService) PurchaseStatic(userID int64, planID uint) (*PurchaseResult, error) {
	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}

	var result PurchaseResult
	err = database.WithBusyRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.checkBalance(tx, userID, plan.CreditsRequired); err != nil {
				return err
			}

			key, err := s.inventory.Assign(tx, plan.ID, userID)
			if err != nil {
				return err
			}

			expiry := time.Now().AddDate(0, 0, plan.DurationDays)
			entitlement := models.UserPlan{
				UserID:     userID,
				PlanID:     plan.ID,
				VPNKeyID:   &key.ID,
				ExpiryDate: &expiry,
				Status:     models.UserPlanStatusActive,
			}
			if err := tx.Create(&entitlement).Error; err != nil {
				return fmt.Errorf("failed to create entitlement: %w", err)
			}

			if err := s.balance.DebitIfEnough(tx, userID, plan.CreditsRequired); err != nil {
				return err
			}

			result = PurchaseResult{Plan: plan, Entitlement: &entitlement, KeyValue: key.KeyValue}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("static plan purchased",
		"user_id", userID, "plan", plan.Name, "credits", plan.CreditsRequired)
	return &result, nil
}

// PurchaseDynamic buys an issuer-backed plan. The issuer call happens before
// the transaction (it is a slow network call); on success the balance is
// re-checked and debited together with the entitlement insert. Issuer
// failure surfaces as ErrIssuerUnavailable with nothing committed.
func (s *EntitlementService) PurchaseDynamic(ctx context.Context, userID int64, planID uint) (*PurchaseResult, error) {
	plan, err := s.loadPlan(planID)
	if err != nil {
		return nil, err
	}

	// Cheap precondition check so an obviously broke buyer never triggers an
	// issuer call.
	if err := s.checkBalance(s.db, userID, plan.CreditsRequired); err != nil {
		return nil, err
	}

	creds, err := s.issuer.CreateUser(ctx, plan.DeviceLimit, plan.DurationDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIssuerUnavailable, err)
	}

	var result PurchaseResult
	err = database.WithBusyRetry(func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			expiry := time.Now().AddDate(0, 0, plan.DurationDays)
			entitlement := models.UserPlan{
				UserID:         userID,
				PlanID:         plan.ID,
				Credential:     creds.Username + "|" + creds.Password,
				IssuerResponse: datatypes.JSON(creds.Raw),
				ExpiryDate:     &expiry,
				Status:         models.UserPlanStatusActive,
			}
			if err := tx.Create(&entitlement).Error; err != nil {
				return fmt.Errorf("failed to create entitlement: %w", err)
			}

			if err := s.balance.DebitIfEnough(tx, userID, plan.CreditsRequired); err != nil {
				return err
			}

			result = PurchaseResult{
				Plan:        plan,
				Entitlement: &entitlement,
				Username:    creds.Username,
				Password:    creds.Password,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("dynamic plan purchased",
		"user_id", userID, "plan", plan.Name, "credits", plan.CreditsRequired)
	return &result, nil
}

func (s *EntitlementService) loadPlan(planID uint) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plan %d: %w", planID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("plan %d: %w", planID, ErrNotFound)
	}
	return &plan, nil
}

func (s *EntitlementService) checkBalance(db *gorm.DB, userID int64, required int) error {
	var user models.User
	if err := db.Where("telegram_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if int(math.Round(user.Balance)) < required {
		return ErrInsufficientBalance
	}
	return nil
}

// UserEntitlement is one row of a user's purchase listing, joined with the
// plan and, for static purchases, the key secret.
type UserEntitlement struct {
	ID             uint           `json:"id"`
	PlanName       string         `json:"plan_name"`
	Description    string         `json:"description"`
	KeyValue       string         `json:"key_value"`
	Credential     string         `json:"credential"`
	IssuerResponse datatypes.JSON `json:"issuer_response"`
	PurchaseDate   time.Time      `json:"purchase_date"`
	ExpiryDate     *time.Time     `json:"expiry_date"`
	Status         string         `json:"status"`
}

// ListForUser returns the user's purchases, newest first.
func (s *EntitlementService) ListForUser(userID int64) ([]UserEntitlement, error) {
	var rows []UserEntitlement
	err := s.db.Raw(`
		SELECT up.id, p.name AS plan_name, p.description,
		       COALESCE(vk.key_value, '') AS key_value,
		       up.credential, up.issuer_response,
		       up.purchase_date, up.expiry_date, up.status
		FROM user_plans up
		JOIN plans p ON up.plan_id = p.id
		LEFT JOIN vpn_keys vk ON up.vpn_key_id = vk.id
		WHERE up.user_id = ?
		ORDER BY up.purchase_date DESC`, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}
	return rows, nil
}

// List returns every entitlement, newest first, for the admin panel.
func (s *EntitlementService) List() ([]models.UserPlan, error) {
	var rows []models.UserPlan
	if err := s.db.Order("purchase_date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}
	return rows, nil
}
