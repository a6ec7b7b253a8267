package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBusy dikembalikan saat masih ada mutasi in-flight untuk order yang
// sama; pemicunya harus menunggu respons sebelumnya selesai dulu.
var ErrBusy = errors.New("another request is in flight for this order")

// ErrorKind mengelompokkan kegagalan berdasarkan apa yang boleh dilakukan
// si pemanggil terhadapnya.
type ErrorKind string

const (
	// KindValidation: input salah, perbaiki dulu, jangan retry otomatis.
	KindValidation ErrorKind = "validation"
	// KindInvalidTransition: server menolak perubahan status yang tidak
	// legal. Tidak di-retry.
	KindInvalidTransition ErrorKind = "invalid_transition"
	// KindAuthorization: bertindak atas order milik orang lain. Terminal.
	KindAuthorization ErrorKind = "authorization"
	// KindNotFound: order id tidak ada. Terminal.
	KindNotFound ErrorKind = "not_found"
	// KindTransient: gagal jaringan / 5xx. Aman untuk retry.
	KindTransient ErrorKind = "transient"
)

// APIError adalah hasil klasifikasi error transport/HTTP. Session controller
// satu-satunya tempat klasifikasi ini terjadi; tracker dan state machine
// tidak pernah melihat error mentah.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (%s)", e.Kind)
}

// Retryable melaporkan apakah error ini aman di-retry.
func (e *APIError) Retryable() bool {
	return e.Kind == KindTransient
}

// classify memetakan status HTTP + pesan server ke taksonomi di atas.
func classify(code int, message string) *APIError {
	kind := KindTransient
	switch {
	case code == http.StatusBadRequest:
		kind = KindValidation
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = KindAuthorization
	case code == http.StatusNotFound:
		kind = KindNotFound
	case code == http.StatusConflict:
		kind = KindInvalidTransition
	}
	if message == "" {
		message = http.StatusText(code)
	}
	return &APIError{Kind: kind, StatusCode: code, Message: message}
}

func transientErr(err error) *APIError {
	return &APIError{Kind: KindTransient, Message: err.Error()}
}
