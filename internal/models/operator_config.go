package models

import "time"

// Operator-managed configuration tables. All three are seeded with defaults
// on first run and edited through the admin panel.

type TopupOption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Credits   int       `gorm:"not null" json:"credits"`
	PriceMMK  int       `gorm:"not null" json:"price_mmk"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PaymentMethod struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ContactConfig struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ContactType  string    `gorm:"size:50;uniqueIndex;not null" json:"contact_type"`
	ContactValue string    `gorm:"size:255;not null" json:"contact_value"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
