package http

import (
	"errors"
	"net/http"
	"strings"

	"brewlend-backend/internal/domain/order"
	"brewlend-backend/internal/infrastructure/ledger"
)

// ---- helpers ----

// statusFor maps the error taxonomy onto HTTP codes. Guard violations are
// conflicts, not validation failures: the request was well formed but the
// transition is illegal right now.
func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrWrongState),
		errors.Is(err, order.ErrWrongCaller),
		errors.Is(err, order.ErrDeadlineNotReached),
		errors.Is(err, order.ErrNotFunded):
		return http.StatusConflict
	case errors.Is(err, order.ErrRemoteUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ledger.ErrMethodNotAllowed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
