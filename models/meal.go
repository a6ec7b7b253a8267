package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Meal struct {
	ID          string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProviderID  string  `gorm:"type:varchar(36);index;not null" json:"providerId"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool    `gorm:"not null;default:true" json:"isAvailable"`
	// PrepTime dalam menit
	PrepTime  int       `gorm:"not null;default:15" json:"prepTime"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
