package models

import (
	"strings"
	"time"
)

// DynamicPlanTag marks plans fulfilled by the QITO credential issuer instead
// of the static key pool. The discriminator is the plan name, not a column;
// operators opt a plan into dynamic fulfilment by naming it accordingly.
const DynamicPlanTag = "QITO"

type Plan struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	DisplayNumber   int       `gorm:"not null;index" json:"display_number"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	CreditsRequired int       `gorm:"not null" json:"credits_required"`
	DurationDays    int       `gorm:"not null" json:"duration_days"`
	DeviceLimit     int       `gorm:"not null;default:1" json:"device_limit"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsDynamic reports whether purchases of this plan go through the external
// credential issuer rather than the key inventory.
func (p *Plan) IsDynamic() bool {
	return strings.Contains(p.Name, DynamicPlanTag)
}
