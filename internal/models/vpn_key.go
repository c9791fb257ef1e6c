package models

import "time"

// VPNKey is a single-use secret from a plan's pre-provisioned pool.
// Invariant: an unused key has nil UsedByUserID and nil UsedAt; a used key
// has both set. A key, once assigned, is never returned to the pool.
type VPNKey struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PlanID       uint       `gorm:"not null;index" json:"plan_id"`
	KeyValue     string     `gorm:"type:text;not null" json:"key_value"`
	IsUsed       bool       `gorm:"not null;default:false;index" json:"is_used"`
	UsedByUserID *int64     `json:"used_by_user_id"`
	UsedAt       *time.Time `json:"used_at"`
	CreatedAt    time.Time  `json:"created_at"`
}
