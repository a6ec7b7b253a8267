package tracker

import (
	"time"

	"github.com/MerchantKhalid/foodhub/lifecycle"
	"github.com/MerchantKhalid/foodhub/models"
	"github.com/MerchantKhalid/foodhub/utils"
)

// stepMeta untuk label dan deskripsi tiap step di progression.
type stepMeta struct {
	label       string
	description string
}

var stepDetails = map[lifecycle.Status]stepMeta{
	lifecycle.StatusPending:        {"Order Placed", "Your order has been received"},
	lifecycle.StatusConfirmed:      {"Confirmed", "Restaurant confirmed your order"},
	lifecycle.StatusPreparing:      {"Preparing", "Your food is being prepared"},
	lifecycle.StatusReadyForPickup: {"Ready", "Food is ready for delivery"},
	lifecycle.StatusOutForDelivery: {"On the Way", "Your order is out for delivery"},
	lifecycle.StatusDelivered:      {"Delivered", "Order delivered successfully"},
}

// StepState klasifikasi satu step di tampilan progression.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

// HistoryEntry adalah satu entri StatusHistory yang sudah dibaca dari server.
type HistoryEntry struct {
	Status lifecycle.Status
	Note   string
	At     time.Time
}

// Snapshot adalah input murni Project: status order saat ini plus history-nya.
type Snapshot struct {
	Status            lifecycle.Status
	History           []HistoryEntry
	EstimatedDelivery string
	Cancelled         bool
}

// Step adalah satu step di tampilan progression.
type Step struct {
	Status      lifecycle.Status
	Label       string
	Description string
	State       StepState
	// Skipped true untuk step sebelum posisi sekarang yang tidak pernah
	// tercatat di history (mis. READY_FOR_PICKUP yang dilompati).
	Skipped bool
	// At diisi dari entri history untuk step tsb, jika ada.
	At *time.Time
}

// View adalah hasil proyeksi yang siap dirender.
type View struct {
	Cancelled    bool
	CancelReason string
	// EstimatedDelivery kosong saat order sudah DELIVERED.
	EstimatedDelivery string
	Steps             []Step
}

// Project memetakan snapshot order ke tampilan progression. Fungsi murni:
// tidak mengubah input, aman dipanggil pada setiap render, dan hasilnya
// identik untuk snapshot yang sama.
func Project(s Snapshot) View {
	if s.Cancelled || s.Status == lifecycle.StatusCancelled {
		v := View{Cancelled: true}
		for _, h := range s.History {
			if h.Status == lifecycle.StatusCancelled {
				v.CancelReason = h.Note
				break
			}
		}
		return v
	}

	current := lifecycle.ProgressionIndex(s.Status)
	if current < 0 {
		// Seharusnya tidak pernah terjadi selama state machine ditegakkan.
		// Degradasi: tidak ada step yang completed, hanya log peringatan.
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("tracker: status %q is not part of the order progression", s.Status)
		}
	}

	v := View{Steps: make([]Step, 0, len(lifecycle.Progression))}
	if s.Status != lifecycle.StatusDelivered {
		v.EstimatedDelivery = s.EstimatedDelivery
	}

	for i, status := range lifecycle.Progression {
		meta := stepDetails[status]
		step := Step{
			Status:      status,
			Label:       meta.label,
			Description: meta.description,
			State:       StepPending,
		}
		if current >= 0 && i <= current {
			step.State = StepCompleted
			// DELIVERED tidak punya step "current": semua step selesai
			if i == current && status != lifecycle.StatusDelivered {
				step.State = StepCurrent
			}
			if at, ok := historyTime(s.History, status); ok {
				t := at
				step.At = &t
			} else if i < current {
				step.Skipped = true
			}
		}
		v.Steps = append(v.Steps, step)
	}
	return v
}

// FromOrder membangun Snapshot dari entity order hasil fetch, termasuk
// string estimasi pengiriman untuk ditampilkan.
func FromOrder(o *models.Order) Snapshot {
	s := Snapshot{
		Status:    o.Status,
		Cancelled: o.Status == lifecycle.StatusCancelled,
		History:   make([]HistoryEntry, 0, len(o.StatusHistory)),
	}
	if o.EstimatedDeliveryTime != nil {
		s.EstimatedDelivery = o.EstimatedDeliveryTime.Format("15:04")
	}
	for _, h := range o.StatusHistory {
		s.History = append(s.History, HistoryEntry{
			Status: h.Status,
			Note:   h.Note,
			At:     h.CreatedAt,
		})
	}
	return s
}

func historyTime(history []HistoryEntry, status lifecycle.Status) (time.Time, bool) {
	for _, h := range history {
		if h.Status == status {
			return h.At, true
		}
	}
	return time.Time{}, false
}
