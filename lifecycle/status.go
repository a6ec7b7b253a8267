package lifecycle

// Status adalah tahapan fulfillment sebuah order.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPreparing      Status = "PREPARING"
	StatusReadyForPickup Status = "READY_FOR_PICKUP"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// Progression adalah urutan tampilan dari awal sampai selesai.
// CANCELLED bukan bagian dari progression, dia cabang terminal tersendiri.
var Progression = []Status{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusOutForDelivery,
	StatusDelivered,
}

// Valid melaporkan apakah s salah satu dari tujuh nilai status yang dikenal.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReadyForPickup,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal melaporkan apakah order di status s sudah tidak bisa berubah lagi.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ProgressionIndex mengembalikan posisi s di dalam Progression, atau -1
// jika s tidak ada di sana (mis. CANCELLED atau nilai tak dikenal).
func ProgressionIndex(s Status) int {
	for i, v := range Progression {
		if v == s {
			return i
		}
	}
	return -1
}
