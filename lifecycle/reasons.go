package lifecycle

import "strings"

// CancellationReasons adalah daftar alasan pembatalan yang ditawarkan ke
// customer. "Other" membuka input teks bebas.
var CancellationReasons = []string{
	"Changed my mind",
	"Ordered by mistake",
	"Found a better price elsewhere",
	"Delivery taking too long",
	"Wrong items ordered",
	ReasonOther,
}

const ReasonOther = "Other"

// KnownReason melaporkan apakah reason salah satu opsi dari daftar di atas.
func KnownReason(reason string) bool {
	for _, r := range CancellationReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// ValidReason melaporkan apakah reason bisa dipakai untuk pembatalan:
// salah satu opsi yang ditawarkan, atau teks bebas non-kosong (fallback
// di bawah "Other").
func ValidReason(reason string) bool {
	return strings.TrimSpace(reason) != ""
}
