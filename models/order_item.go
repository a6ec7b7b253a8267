package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID string `gorm:"type:varchar(36);index;not null" json:"orderId"`
	// Order tidak ikut di-serialize supaya tidak nested rekursif
	Order  Order  `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MealID string `gorm:"type:varchar(36);not null" json:"mealId"`
	Meal   Meal   `gorm:"foreignKey:MealID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"meal"`
	// Kuantitas minimal 1
	Quantity int `gorm:"not null" json:"quantity"`
	// PriceAtOrder adalah harga meal saat pembelian. Tidak pernah berubah
	// walaupun harga live meal-nya berubah.
	PriceAtOrder float64   `gorm:"type:decimal(10,2);not null" json:"priceAtOrder"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}
