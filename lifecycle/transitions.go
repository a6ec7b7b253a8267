package lifecycle

import "fmt"

// Actor adalah pihak yang meminta perubahan status.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorProvider Actor = "provider"
)

// providerTransitions memetakan status sekarang ke daftar status berikutnya
// yang boleh diminta provider. Urutan list = urutan aksi yang ditawarkan.
// READY_FOR_PICKUP sengaja dilewati: dari PREPARING langsung ke
// OUT_FOR_DELIVERY.
var providerTransitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// actionLabels untuk tombol aksi provider.
var actionLabels = map[Status]string{
	StatusConfirmed:      "Confirm Order",
	StatusPreparing:      "Start Preparing",
	StatusOutForDelivery: "Out for Delivery",
	StatusDelivered:      "Mark as Delivered",
	StatusCancelled:      "Cancel Order",
}

// Rules adalah kebijakan transisi yang bisa dikonfigurasi.
// Saat ini hanya window pembatalan customer yang configurable.
type Rules struct {
	// CustomerCancelWindow adalah himpunan status di mana customer masih
	// boleh membatalkan ordernya.
	CustomerCancelWindow []Status
}

// DefaultRules mengizinkan customer membatalkan selama order masih
// PENDING atau CONFIRMED.
var DefaultRules = Rules{
	CustomerCancelWindow: []Status{StatusPending, StatusConfirmed},
}

// CustomerCanCancel melaporkan apakah customer boleh membatalkan order
// yang sedang berada di status from.
func (r Rules) CustomerCanCancel(from Status) bool {
	for _, s := range r.CustomerCancelWindow {
		if s == from {
			return true
		}
	}
	return false
}

// Can melaporkan apakah actor boleh memindahkan order dari from ke to.
// Customer hanya pernah boleh membatalkan; provider mengikuti tabel
// transisi maju.
func (r Rules) Can(actor Actor, from, to Status) bool {
	switch actor {
	case ActorCustomer:
		return to == StatusCancelled && r.CustomerCanCancel(from)
	case ActorProvider:
		for _, s := range providerTransitions[from] {
			if s == to {
				return true
			}
		}
	}
	return false
}

// Action adalah satu aksi perubahan status yang ditawarkan ke provider.
type Action struct {
	Target Status `json:"target"`
	Label  string `json:"label"`
}

// NextActions mengembalikan daftar aksi legal untuk provider dari status
// from, berurutan. Status terminal menghasilkan list kosong.
func NextActions(from Status) []Action {
	next := providerTransitions[from]
	actions := make([]Action, 0, len(next))
	for _, s := range next {
		actions = append(actions, Action{Target: s, Label: actionLabels[s]})
	}
	return actions
}

// InvalidTransitionError dikembalikan saat transisi yang diminta tidak ada
// di himpunan legal; order tidak pernah berubah dalam kasus ini.
type InvalidTransitionError struct {
	Actor Actor
	From  Status
	To    Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
