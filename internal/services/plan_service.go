package services

import (
	"errors"
	"fmt"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"gorm.io/gorm"
)

// PlanService is the read-mostly catalog of purchasable offerings. Listings
// order by the operator-assigned display number, not insertion id, so plans
// can be renumbered for display independent of creation order. Key
// availability is deliberately not part of a listing; callers query the
// inventory separately so a plan shows up even at zero stock.
type PlanService struct {
	db *gorm.DB
}

func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{db: db}
}

func (s *PlanService) Create(plan *models.Plan) error {
	if err := s.db.Create(plan).Error; err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (s *PlanService) Get(id uint) (*models.Plan, error) {
	var plan models.Plan
	if err := s.db.First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plan %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &plan, nil
}

func (s *PlanService) Update(plan *models.Plan) error {
	result := s.db.Model(&models.Plan{}).
		Where("id = ?", plan.ID).
		Updates(map[string]interface{}{
			"display_number":   plan.DisplayNumber,
			"name":             plan.Name,
			"description":      plan.Description,
			"credits_required": plan.CreditsRequired,
			"duration_days":    plan.DurationDays,
			"device_limit":     plan.DeviceLimit,
			"is_active":        plan.IsActive,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("plan %d: %w", plan.ID, ErrNotFound)
	}
	return nil
}

func (s *PlanService) Delete(id uint) error {
	result := s.db.Delete(&models.Plan{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PlanService) List() ([]models.Plan, error) {
	var plans []models.Plan
	if err := s.db.Order("display_number ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *PlanService) ListActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := s.db.Where("is_active = ?", true).
		Order("display_number ASC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	return plans, nil
}

// ListActiveStatic returns active plans fulfilled from the key pool.
func (s *PlanService) ListActiveStatic() ([]models.Plan, error) {
	return s.listActiveByKind(false)
}

// ListActiveDynamic returns active plans fulfilled by the credential issuer.
func (s *PlanService) ListActiveDynamic() ([]models.Plan, error) {
	return s.listActiveByKind(true)
}

func (s *PlanService) listActiveByKind(dynamic bool) ([]models.Plan, error) {
	plans, err := s.ListActive()
	if err != nil {
		return nil, err
	}
	filtered := make([]models.Plan, 0, len(plans))
	for _, p := range plans {
		if p.IsDynamic() == dynamic {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
