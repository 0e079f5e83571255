package http

import (
	"errors"
	"net/http"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.NewObjectNotFoundError("deal", kernel.NewUUID()), http.StatusNotFound},
		{"not authorized", errs.NewNotAuthorizedError("user", "pay deal"), http.StatusForbidden},
		{"conflict", errs.NewConflictError("deal already accepted"), http.StatusConflict},
		{"invalid state", errs.NewInvalidStateError("cancel", "COMPLETED"), http.StatusConflict},
		{"insufficient funds", errs.NewInsufficientFundsError("buyer", 500), http.StatusPaymentRequired},
		{"invalid otp", errs.NewInvalidOtpError(), http.StatusUnprocessableEntity},
		{"value required", errs.NewValueIsRequiredError("orderID"), http.StatusBadRequest},
		{"value out of range", errs.NewValueIsOutOfRangeError("latitude", 91.0, -90.0, 90.0), http.StatusBadRequest},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestFail_MasksInternalErrors(t *testing.T) {
	status, body := fail(errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", body.Message)
}

func TestFail_EchoesDomainErrors(t *testing.T) {
	status, body := fail(errs.NewInvalidOtpError())

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.NotEmpty(t, body.Message)
	assert.NotEqual(t, "internal error", body.Message)
}
