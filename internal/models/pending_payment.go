package models

import "time"

const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusDenied   = "denied"
)

// PendingPayment is a manually-verified top-up request. Status moves from
// pending to approved or denied exactly once; both are terminal.
type PendingPayment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      int64      `gorm:"not null;index" json:"user_id"`
	Credits     int        `gorm:"not null" json:"credits"`
	PriceMMK    int        `gorm:"not null" json:"price_mmk"`
	ProofFileID *string    `gorm:"size:255" json:"proof_file_id"`
	Status      string     `gorm:"size:10;not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ProcessedAt *time.Time `json:"processed_at"`
}
