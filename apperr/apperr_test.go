package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidationFailed, http.StatusBadRequest},
		{KindInvalidProductRef, http.StatusBadRequest},
		{KindInsufficientStock, http.StatusBadRequest},
		{KindEmptyCart, http.StatusBadRequest},
		{KindCartStale, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindInvalidCredential, http.StatusUnauthorized},
		{KindInvalidToken, http.StatusUnauthorized},
		{KindTokenExpired, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, test := range tests {
		if got := Status(test.kind); got != test.want {
			t.Errorf("Status(%d) = %d, want %d", test.kind, got, test.want)
		}
	}
}

func TestFrom(t *testing.T) {
	appErr := ErrEmptyCart
	if got := From(appErr); got != appErr {
		t.Errorf("From() rewrapped a taxonomy error")
	}

	wrapped := fmt.Errorf("context: %w", ErrCartStale)
	if got := From(wrapped); got.Kind != KindCartStale {
		t.Errorf("From(wrapped) kind = %d, want KindCartStale", got.Kind)
	}

	plain := errors.New("connection refused")
	got := From(plain)
	if got.Kind != KindUnknown {
		t.Errorf("From(plain) kind = %d, want KindUnknown", got.Kind)
	}
	if !errors.Is(got, plain) {
		t.Error("From(plain) lost the cause chain")
	}
	if got.Message != "未知錯誤" {
		t.Errorf("From(plain) message = %q, want generic", got.Message)
	}
}

// errors.Is matches by kind, so handler code can compare against the shared
// instances without string matching.
func TestErrorIs(t *testing.T) {
	if !errors.Is(New(KindEmptyCart, "whatever"), ErrEmptyCart) {
		t.Error("two KindEmptyCart errors did not match")
	}
	if errors.Is(ErrEmptyCart, ErrCartStale) {
		t.Error("different kinds matched")
	}
	if !errors.Is(Validation("phone", "缺少收件人電話"), Validation("address", "缺少收件地址")) {
		t.Error("two ValidationFailed errors did not match by kind")
	}
}
