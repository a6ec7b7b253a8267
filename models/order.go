package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/lifecycle"
)

// Metode pembayaran. Hanya CASH_ON_DELIVERY yang dipakai saat ini.
const (
	PaymentCashOnDelivery = "CASH_ON_DELIVERY"
)

// Status pembayaran.
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

type Order struct {
	ID                    string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerID            string           `gorm:"type:varchar(36);index;not null" json:"customerId"`
	Customer              *User            `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProviderID            string           `gorm:"type:varchar(36);index;not null" json:"providerId"`
	Provider              *User            `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Status                lifecycle.Status `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	TotalAmount           float64          `gorm:"type:decimal(10,2);not null" json:"totalAmount"`
	DeliveryAddress       string           `gorm:"type:varchar(255);not null" json:"deliveryAddress"`
	ContactPhone          string           `gorm:"type:varchar(32);not null" json:"contactPhone"`
	OrderNotes            string           `gorm:"type:text" json:"orderNotes,omitempty"`
	PaymentMethod         string           `gorm:"type:varchar(20);not null;default:'CASH_ON_DELIVERY'" json:"paymentMethod"`
	PaymentStatus         string           `gorm:"type:varchar(20);not null;default:'PENDING'" json:"paymentStatus"`
	EstimatedDeliveryTime *time.Time       `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time       `json:"actualDeliveryTime,omitempty"`
	CancellationReason    string           `gorm:"type:varchar(255)" json:"cancellationReason,omitempty"`
	CreatedAt             time.Time        `gorm:"not null" json:"createdAt"`
	UpdatedAt             time.Time        `gorm:"not null" json:"updatedAt"`
	OrderItems            []OrderItem      `gorm:"foreignKey:OrderID" json:"orderItems"`
	StatusHistory         []StatusHistory  `gorm:"foreignKey:OrderID" json:"statusHistory"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
