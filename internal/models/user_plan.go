package models

import (
	"time"

	"gorm.io/datatypes"
)

const UserPlanStatusActive = "active"

// UserPlan records one successful purchase: either a static entitlement
// referencing exactly one VPNKey, or a dynamic one carrying the issuer's
// credential pair inline. VPNKeyID is exclusive; no two rows share a key.
// Expiry is detected by comparing ExpiryDate to the clock, not by a status
// transition; the sweep hard-deletes expired rows together with their keys.
type UserPlan struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         int64          `gorm:"not null;index" json:"user_id"`
	PlanID         uint           `gorm:"not null;index" json:"plan_id"`
	VPNKeyID       *uint          `gorm:"uniqueIndex" json:"vpn_key_id"`
	Credential     string         `gorm:"type:text" json:"credential"`
	IssuerResponse datatypes.JSON `json:"issuer_response"`
	PurchaseDate   time.Time      `gorm:"not null;autoCreateTime" json:"purchase_date"`
	ExpiryDate     *time.Time     `gorm:"index" json:"expiry_date"`
	Status         string         `gorm:"size:20;not null;default:'active'" json:"status"`
}
