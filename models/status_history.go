package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/lifecycle"
)

// StatusHistory adalah log append-only: satu baris per transisi status,
// tidak pernah diubah atau dihapus.
type StatusHistory struct {
	ID        string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string           `gorm:"type:varchar(36);index;not null" json:"orderId"`
	Status    lifecycle.Status `gorm:"type:varchar(20);not null" json:"status"`
	Note      string           `gorm:"type:varchar(255)" json:"note,omitempty"`
	CreatedAt time.Time        `gorm:"not null" json:"createdAt"`
}

func (h *StatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
