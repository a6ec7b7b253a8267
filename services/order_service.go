package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/lifecycle"
	"github.com/MerchantKhalid/foodhub/models"
)

// deliveryEstimate dipakai saat provider meng-confirm order.
const deliveryEstimate = 45 * time.Minute

// OrderService menegakkan state machine order di sisi server. Semua
// perubahan status lewat sini: validasi transisi, satu baris history per
// transisi, stempel waktu.
type OrderService struct {
	DB    *gorm.DB
	Rules lifecycle.Rules
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db, Rules: lifecycle.DefaultRules}
}

// Transition memindahkan order ke status target atas nama actor. Jika
// transisinya tidak legal, order tidak disentuh dan error yang kembali
// *lifecycle.InvalidTransitionError. Note dicatat di entri history (untuk
// pembatalan berisi alasannya).
func (s *OrderService) Transition(order *models.Order, actor lifecycle.Actor, target lifecycle.Status, note string) error {
	if !s.Rules.Can(actor, order.Status, target) {
		return &lifecycle.InvalidTransitionError{Actor: actor, From: order.Status, To: target}
	}

	now := time.Now()
	order.Status = target
	order.UpdatedAt = now

	switch target {
	case lifecycle.StatusConfirmed:
		est := now.Add(deliveryEstimate)
		order.EstimatedDeliveryTime = &est
	case lifecycle.StatusDelivered:
		order.ActualDeliveryTime = &now
		// Cash on delivery: uang berpindah tangan saat order diantar
		if order.PaymentMethod == models.PaymentCashOnDelivery {
			order.PaymentStatus = models.PaymentStatusPaid
		}
	case lifecycle.StatusCancelled:
		order.CancellationReason = note
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}
		entry := models.StatusHistory{
			OrderID:   order.ID,
			Status:    target,
			Note:      note,
			CreatedAt: now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		order.StatusHistory = append(order.StatusHistory, entry)
		return nil
	})
}
