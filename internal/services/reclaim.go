package services

import (
	"fmt"
	"time"

	"github.com/minkhantzaw/vpnshop-backend/internal/models"
	"gorm.io/gorm"
)

// ReclaimDetail describes one deleted entitlement for the admin notification.
type ReclaimDetail struct {
	UserID     int64      `json:"user_id"`
	PlanName   string     `json:"plan_name"`
	KeyValue   string     `json:"key_value"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// ReclaimExpired hard-deletes every active entitlement whose expiry is in the
// past, along with its referenced key. An expired credential must become
// unusable and un-enumerable immediately; audit history is traded away for
// that. Each sweep runs in one transaction.
func (s *InventoryService) ReclaimExpired() (int, []ReclaimDetail, error) {
	var details []ReclaimDetail
	err := s.db.Transaction(func(tx *gorm.DB) error {
		type expiredRow struct {
			ID         uint
			UserID     int64
			VPNKeyID   *uint
			ExpiryDate *time.Time
			PlanName   string
			KeyValue   string
		}
		var rows []expiredRow
		err := tx.Raw(`
			SELECT up.id, up.user_id, up.vpn_key_id, up.expiry_date,
			       p.name AS plan_name, COALESCE(vk.key_value, '') AS key_value
			FROM user_plans up
			JOIN plans p ON up.plan_id = p.id
			LEFT JOIN vpn_keys vk ON up.vpn_key_id = vk.id
			WHERE up.status = ? AND up.expiry_date IS NOT NULL AND up.expiry_date < ?`,
			models.UserPlanStatusActive, time.Now()).
			Scan(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to find expired entitlements: %w", err)
		}

		for _, row := range rows {
			if err := tx.Delete(&models.UserPlan{}, row.ID).Error; err != nil {
				return fmt.Errorf("failed to delete entitlement %d: %w", row.ID, err)
			}
			if row.VPNKeyID != nil {
				if err := tx.Delete(&models.VPNKey{}, *row.VPNKeyID).Error; err != nil {
					return fmt.Errorf("failed to delete key %d: %w", *row.VPNKeyID, err)
				}
			}
			details = append(details, ReclaimDetail{
				UserID:     row.UserID,
				PlanName:   row.PlanName,
				KeyValue:   row.KeyValue,
				ExpiryDate: row.ExpiryDate,
			})
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return len(details), details, nil
}

// ReclaimOrphans deletes every key referenced by no entitlement, used or
// not. This is the safety net for any path that marked a key used without
// writing its entitlement, or deleted the entitlement without the key.
func (s *InventoryService) ReclaimOrphans() (int, []models.VPNKey, error) {
	var orphans []models.VPNKey
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id NOT IN (?)",
			tx.Model(&models.UserPlan{}).Select("vpn_key_id").Where("vpn_key_id IS NOT NULL"),
		).Find(&orphans).Error
		if err != nil {
			return fmt.Errorf("failed to find orphaned keys: %w", err)
		}
		if len(orphans) == 0 {
			return nil
		}
		ids := make([]uint, len(orphans))
		for i, k := range orphans {
			ids[i] = k.ID
		}
		if err := tx.Delete(&models.VPNKey{}, ids).Error; err != nil {
			return fmt.Errorf("failed to delete orphaned keys: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return len(orphans), orphans, nil
}

// ExpiringEntitlement is a lookahead row for the expiring-soon report.
type ExpiringEntitlement struct {
	UserID     int64      `json:"user_id"`
	Username   string     `json:"username"`
	FirstName  string     `json:"first_name"`
	PlanName   string     `json:"plan_name"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

// ExpiringSoon lists active entitlements expiring within the next daysAhead
// days, soonest first.
func (s *InventoryService) ExpiringSoon(daysAhead int) ([]ExpiringEntitlement, error) {
	now := time.Now()
	cutoff := now.AddDate(0, 0, daysAhead)
	var rows []ExpiringEntitlement
	err := s.db.Raw(`
		SELECT up.user_id, COALESCE(u.username, '') AS username,
		       COALESCE(u.first_name, '') AS first_name,
		       p.name AS plan_name, up.expiry_date
		FROM user_plans up
		JOIN plans p ON up.plan_id = p.id
		LEFT JOIN users u ON up.user_id = u.telegram_id
		WHERE up.status = ? AND up.expiry_date IS NOT NULL
		  AND up.expiry_date >= ? AND up.expiry_date < ?
		ORDER BY up.expiry_date ASC`,
		models.UserPlanStatusActive, now, cutoff).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring entitlements: %w", err)
	}
	return rows, nil
}

// PlanKeyStats is per-plan pool aggregation for the admin panel and sweeper.
type PlanKeyStats struct {
	PlanID        uint   `json:"plan_id"`
	PlanName      string `json:"plan_name"`
	TotalKeys     int64  `json:"total_keys"`
	AvailableKeys int64  `json:"available_keys"`
	UsedKeys      int64  `json:"used_keys"`
}

// GlobalKeyStats is the rollup across all active plans.
type GlobalKeyStats struct {
	ActivePlans   int64 `json:"active_plans"`
	TotalKeys     int64 `json:"total_keys"`
	UsedKeys      int64 `json:"used_keys"`
	AvailableKeys int64 `json:"available_keys"`
}

// Statistics aggregates the pool per active plan plus a global rollup. Pure
// reads, no mutation.
func (s *InventoryService) Statistics() ([]PlanKeyStats, GlobalKeyStats, error) {
	var perPlan []PlanKeyStats
	err := s.db.Raw(`
		SELECT p.id AS plan_id, p.name AS plan_name,
		       COUNT(vk.id) AS total_keys,
		       COUNT(CASE WHEN vk.is_used = ? THEN 1 END) AS available_keys,
		       COUNT(CASE WHEN vk.is_used = ? THEN 1 END) AS used_keys
		FROM plans p
		LEFT JOIN vpn_keys vk ON p.id = vk.plan_id
		WHERE p.is_active = ?
		GROUP BY p.id, p.name
		ORDER BY available_keys ASC`, false, true, true).
		Scan(&perPlan).Error
	if err != nil {
		return nil, GlobalKeyStats{}, fmt.Errorf("failed to aggregate key statistics: %w", err)
	}

	var global GlobalKeyStats
	global.ActivePlans = int64(len(perPlan))
	for _, row := range perPlan {
		global.TotalKeys += row.TotalKeys
		global.UsedKeys += row.UsedKeys
		global.AvailableKeys += row.AvailableKeys
	}
	return perPlan, global, nil
}
