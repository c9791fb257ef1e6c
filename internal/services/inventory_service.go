package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"github.com/sethvargo/go-password/password"
	"gorm.io/gorm"
)

// InventoryService owns the pool of single-use VPN keys: bulk provisioning,
// oldest-first assignment, and the reclamation sweeps. The governing rule is
// that a key is handed out at most once, ever, and the pool count is always
// exact.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// AddKeys inserts one unused key per non-empty trimmed line of text.
// Identical secrets are deliberately kept as independent keys; the store does
// not de-duplicate.
func (s *InventoryService) AddKeys(planID uint, text string) (int, error) {
	var keys []models.VPNKey
	for _, line := range strings.Split(text, "\n") {
		value := strings.TrimSpace(line)
		if value == "" {
			continue
		}
		keys = append(keys, models.VPNKey{PlanID: planID, KeyValue: value})
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.db.Create(&keys).Error; err != nil {
		return 0, fmt.Errorf("failed to add keys: %w", err)
	}
	return len(keys), nil
}

// GenerateKeys provisions count random secrets for a plan and returns them.
func (s *InventoryService) GenerateKeys(planID uint, count, length int) ([]string, error) {
	if length <= 0 {
		length = 32
	}
	keys := make([]models.VPNKey, 0, count)
	values := make([]string, 0, count)
	for i := 0; i < count; i++ {
		value, err := password.Generate(length, length/4, 0, false, true)
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
		keys = append(keys, models.VPNKey{PlanID: planID, KeyValue: value})
		values = append(values, value)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	if err := s.db.Create(&keys).Error; err != nil {
		return nil, fmt.Errorf("failed to store generated keys: %w", err)
	}
	return values, nil
}

// Available lists unused keys oldest-first, the same order Assign consumes
// them, so the oldest provisioned stock never goes stale.
func (s *InventoryService) Available(planID uint) ([]models.VPNKey, error) {
	var keys []models.VPNKey
	err := s.db.Where("plan_id = ? AND is_used = ?", planID, false).
		Order("created_at ASC, id ASC").
		Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available keys: %w", err)
	}
	return keys, nil
}

func (s *InventoryService) AvailableCount(planID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.VPNKey{}).
		Where("plan_id = ? AND is_used = ?", planID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count available keys: %w", err)
	}
	return count, nil
}

// AllForPlan lists every key for a plan, newest-first, for the admin panel.
func (s *InventoryService) AllForPlan(planID uint) ([]models.VPNKey, error) {
	var keys []models.VPNKey
	err := s.db.Where("plan_id = ?", planID).
		Order("created_at DESC").
		Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Assign claims the oldest unused key for the plan: flips it to used, stamps
// the assignee and time, and returns it. ErrStockExhausted when the pool is
// empty. The flip is a conditional single-row UPDATE guarded on is_used, so
// two concurrent callers can never claim the same key; the loser of the race
// simply moves on to the next candidate.
func (s *InventoryService) Assign(tx *gorm.DB, planID uint, userID int64) (*models.VPNKey, error) {
	for {
		var key models.VPNKey
		err := tx.Where("plan_id = ? AND is_used = ?", planID, false).
			Order("created_at ASC, id ASC").
			First(&key).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStockExhausted
			}
			return nil, fmt.Errorf("failed to select key: %w", err)
		}

		now := time.Now()
		result := tx.Model(&models.VPNKey{}).
			Where("id = ? AND is_used = ?", key.ID, false).
			Updates(map[string]interface{}{
				"is_used":         true,
				"used_by_user_id": userID,
				"used_at":         now,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to claim key: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Another purchaser took this one first; try the next oldest.
			continue
		}

		key.IsUsed = true
		key.UsedByUserID = &userID
		key.UsedAt = &now
		return &key, nil
	}
}

func (s *InventoryService) DeleteKey(id uint) error {
	result := s.db.Delete(&models.VPNKey{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("key %d: %w", id, ErrNotFound)
	}
	return nil
}

// PlanStock is a per-plan availability row used for low-stock alerting.
type PlanStock struct {
	PlanID        uint   `json:"plan_id"`
	PlanName      string `json:"plan_name"`
	AvailableKeys int64  `json:"available_keys"`
}

// LowStock lists active plans with fewer than threshold unused keys,
// scarcest first. Alerting only; purchases are never gated on it.
func (s *InventoryService) LowStock(threshold int) ([]PlanStock, error) {
	var rows []PlanStock
	err := s.db.Raw(`
		SELECT p.id AS plan_id, p.name AS plan_name, COUNT(vk.id) AS available_keys
		FROM plans p
		LEFT JOIN vpn_keys vk ON p.id = vk.plan_id AND vk.is_used = ?
		WHERE p.is_active = ?
		GROUP BY p.id, p.name
		HAVING COUNT(vk.id) < ?
		ORDER BY available_keys ASC`, false, true, threshold).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query low-stock plans: %w", err)
	}
	return rows, nil
}
